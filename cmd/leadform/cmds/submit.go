package cmds

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wolfman30/debt-relief-intake/internal/formclient"
	"github.com/wolfman30/debt-relief-intake/internal/submissions"
	"github.com/wolfman30/debt-relief-intake/pkg/logging"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the form locally without contacting the server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := fillForm(v, "")
			if err != nil {
				return err
			}
			if !form.Validate() {
				printFieldErrors(cmd.OutOrStdout(), form.Errors())
				return formclient.ErrInvalid
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Form is valid")
			return nil
		},
	}
}

func newSubmitCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate the form and post it to the intake API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			form, err := fillForm(v, v.GetString("endpoint"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			err = form.Submit(cmd.Context())
			switch {
			case err == nil:
				fmt.Fprintln(out, submissions.MessageSubmitted)
				return nil
			case errors.Is(err, formclient.ErrInvalid):
				printFieldErrors(out, form.Errors())
			default:
				fmt.Fprintln(out, form.Notice())
			}
			return err
		},
	}
	cmd.Flags().String("endpoint", defaultEndpoint, "submit-form URL")
	cmd.Flags().Duration("timeout", 30*time.Second, "request timeout")
	_ = v.BindPFlags(cmd.Flags())
	return cmd
}

func fillForm(v *viper.Viper, endpoint string) (*formclient.Form, error) {
	logger := logging.New(v.GetString("log-level"))
	client := &http.Client{Timeout: durationOr(v, "timeout", 30*time.Second)}
	form := formclient.New(endpoint, client, logger)
	for field, val := range fieldValues(v) {
		if err := form.Set(field, val); err != nil {
			return nil, err
		}
	}
	return form, nil
}

func printFieldErrors(w io.Writer, errs submissions.FieldErrors) {
	for _, field := range errs.Fields() {
		fmt.Fprintf(w, "%s: %s\n", field, errs[field])
	}
}
