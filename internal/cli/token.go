package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
)

var (
	tokenUser string
	tokenRole string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an access token signed with JWT_SECRET",
	RunE:  issueToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "operator", "subject user id")
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(models.RoleAdmin), "role claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}

func issueToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	token, expires, err := service.NewTokenService(cfg.JWT.Secret).
		IssueToken(tokenUser, models.UserRole(strings.ToUpper(tokenRole)), tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
	return nil
}
