package cmds

import (
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wolfman30/debt-relief-intake/internal/submissions"
)

const (
	envPrefix       = "LEADFORM"
	defaultEndpoint = "http://localhost:5000/api/submit-form"
)

// NewRootCmd builds the leadform command tree. Every flag can also come from
// a LEADFORM_* environment variable (LEADFORM_FULL_NAME, LEADFORM_ENDPOINT).
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "leadform",
		Short:         "Fill in and submit the debt relief intake form",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", "warn", "log level (debug|info|warn|error)")
	for _, field := range submissions.FieldOrder {
		root.PersistentFlags().String(flagName(field), "", "form field "+field)
	}
	_ = v.BindPFlags(root.PersistentFlags())

	root.AddCommand(newValidateCmd(v), newSubmitCmd(v))
	return root
}

// flagName turns a wire field name into its flag spelling: totalDebt becomes
// total-debt.
func flagName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// fieldValues collects the form fields that were given on the command line
// or in the environment.
func fieldValues(v *viper.Viper) map[string]string {
	out := make(map[string]string, len(submissions.FieldOrder))
	for _, field := range submissions.FieldOrder {
		if val := v.GetString(flagName(field)); val != "" {
			out[field] = val
		}
	}
	return out
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if d := v.GetDuration(key); d > 0 {
		return d
	}
	return fallback
}
