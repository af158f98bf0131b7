package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/jagarana/internal/certificate"
)

func init() {
	cmd := &cobra.Command{
		Use:   "certificate",
		Short: "Show certificate requirements",
		Run:   runCertificate,
	}

	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue the completion certificate",
		Args:  cobra.NoArgs,
		Run:   runCertificateIssue,
	}
	issue.Flags().String("name", "", "Name on the certificate (required)")
	issue.Flags().String("lineage", "", "Gotra or lineage (optional)")
	issue.MarkFlagRequired("name")

	cmd.AddCommand(issue)
	RootCmd.AddCommand(cmd)
}

type certificateStatus struct {
	Unlocked  bool                  `json:"unlocked"`
	Checklist certificate.Checklist `json:"checklist"`
}

func runCertificate(cmd *cobra.Command, args []string) {
	s := mustOpenSession(cmd)
	defer s.Close()

	printJSON(cmd, certificateStatus{
		Unlocked:  s.tr.CertificateUnlocked(),
		Checklist: s.tr.Checklist(),
	})
}

func runCertificateIssue(cmd *cobra.Command, args []string) {
	name, _ := cmd.Flags().GetString("name")
	lineage, _ := cmd.Flags().GetString("lineage")

	s := mustOpenSession(cmd)
	defer s.Close()

	cert, err := s.tr.IssueCertificate(name, lineage)
	if err != nil {
		exitErr("issue certificate", err)
	}
	printJSON(cmd, cert)
}
