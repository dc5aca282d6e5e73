package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"verifyflow/internal/casework/aggregate"
	"verifyflow/internal/casework/documents"
	"verifyflow/internal/casework/models"
	"verifyflow/internal/casework/schema"
	"verifyflow/internal/casework/workflow"
	id "verifyflow/pkg/domain"
	dErrors "verifyflow/pkg/domain-errors"
)

// errInvalid signals a failed check whose details were already printed.
var errInvalid = errors.New("check failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "casectl",
		Long:          "Offline checks for verifyflow case profiles and documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newTransitionsCmd(), newCheckFileCmd())
	return root
}

func newValidateCmd() *cobra.Command {
	var (
		caseType       string
		ownershipTotal bool
		asOf           string
	)
	cmd := &cobra.Command{
		Use:   "validate [profile.json]",
		Short: "Validate a profile as it would be checked at submission",
		Long:  "Reads a profile JSON file (or stdin with -) and prints every field that blocks submission and the completion score.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ct, err := models.ParseCaseType(caseType)
			if err != nil {
				return err
			}
			now := time.Now()
			if asOf != "" {
				if now, err = time.Parse(time.DateOnly, asOf); err != nil {
					return fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
				}
			}
			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			profile, err := models.DecodeProfile(ct, raw)
			if err != nil {
				return err
			}

			c, err := models.NewCase(id.NewCaseID(), id.NewUserID(), ct, now)
			if err != nil {
				return err
			}
			if err := c.SetProfile(profile); err != nil {
				return err
			}
			evaluator := aggregate.NewEvaluator(schema.NewRegistry(), aggregate.WithOwnershipTotal(ownershipTotal))
			errs, err := evaluator.ValidateForSubmission(c, now)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "completion: %d%%\n", evaluator.ComputeCompletion(c))
			if len(errs) == 0 {
				_, _ = fmt.Fprintln(out, "profile is ready for submission")
				return nil
			}
			for _, fe := range errs {
				_, _ = fmt.Fprintf(out, "%s: %s\n", fe.FieldPath, fe.Message)
			}
			return errInvalid
		},
	}
	cmd.Flags().StringVarP(&caseType, "type", "t", string(models.CaseTypeIndividual), "case type: individual or business")
	cmd.Flags().BoolVar(&ownershipTotal, "ownership-total", false, "require beneficial owner percentages to sum to at most 100")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate date rules as of this day")
	return cmd
}

func newTransitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transitions",
		Short: "Print the case workflow table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%-8s %-13s %-13s %s\n", "ACTION", "FROM", "TO", "ACTORS")
			for _, t := range workflow.Transitions() {
				actors := make([]string, 0, len(t.Actors))
				for _, a := range t.Actors {
					actors = append(actors, string(a))
				}
				_, _ = fmt.Fprintf(out, "%-8s %-13s %-13s %s\n", t.Action, t.From, t.To, strings.Join(actors, ","))
			}
			return nil
		},
	}
}

func newCheckFileCmd() *cobra.Command {
	var (
		docType   string
		mediaType string
		maxBytes  int64
	)
	cmd := &cobra.Command{
		Use:   "check-file [path]",
		Short: "Check a file against the document upload policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			if mediaType == "" {
				mediaType = mediaTypeFor(args[0])
			}
			policy := documents.DefaultPolicy()
			if maxBytes > 0 {
				policy.MaxFileBytes = maxBytes
			}
			file := &models.File{
				Filename:  filepath.Base(args[0]),
				MediaType: mediaType,
				SizeBytes: info.Size(),
			}
			out := cmd.OutOrStdout()
			if err := policy.Accept(models.DocumentType(docType), file); err != nil {
				if fields := dErrors.FieldsOf(err); len(fields) > 0 {
					for _, fe := range fields {
						_, _ = fmt.Fprintf(out, "%s: %s\n", fe.FieldPath, fe.Message)
					}
					return errInvalid
				}
				_, _ = fmt.Fprintln(out, err.Error())
				return errInvalid
			}
			_, _ = fmt.Fprintf(out, "%s accepted as %s (%s, %d bytes)\n", file.Filename, docType, mediaType, file.SizeBytes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&docType, "document-type", "d", string(models.DocPassport), "document type")
	cmd.Flags().StringVarP(&mediaType, "media-type", "m", "", "media type; guessed from the extension when empty")
	cmd.Flags().Int64Var(&maxBytes, "max-bytes", 0, "size ceiling; defaults to the server default")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

var extMediaTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func mediaTypeFor(path string) string {
	if mt, ok := extMediaTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return mt
	}
	return "application/octet-stream"
}
