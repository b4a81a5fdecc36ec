package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/internal/navigation"
	"github.com/noah-isme/educonnect/internal/session"
)

func newLoginCommand(app *App) *cobra.Command {
	var email, password, role string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an admin or a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			var err error
			if email, err = app.prompt.Value(ctx, email, "Email"); err != nil {
				return err
			}
			if password, err = app.prompt.Value(ctx, password, "Password"); err != nil {
				return err
			}
			landing, err := app.auth.Login(ctx, models.LoginRequest{
				Email:    email,
				Password: password,
				Role:     models.Role(strings.ToLower(strings.TrimSpace(role))),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Logged in as %s. Now on %s\n", role, landing)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	cmd.Flags().StringVar(&role, "role", string(models.RoleStudent), "admin or student")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Logged out.")
			return nil
		},
	}
}

func newWhoamiCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			current, claims, err := app.auth.Session(cmd.Context())
			if err != nil {
				return err
			}
			if !current.Authenticated() {
				fmt.Fprintln(app.out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(app.out, "Role: %s\n", current.Role)
			fmt.Fprintf(app.out, "Dashboard: %s\n", navigation.DashboardFor(current.Role))
			if claims == nil {
				return nil
			}
			if claims.Email != "" {
				fmt.Fprintf(app.out, "Email: %s\n", claims.Email)
			}
			if claims.ExpiresAt != nil {
				suffix := ""
				if session.Expired(claims, time.Now()) {
					suffix = " (expired)"
				}
				fmt.Fprintf(app.out, "Expires: %s%s\n", claims.ExpiresAt.Format(time.RFC3339), suffix)
			}
			return nil
		},
	}
}

func newRegisterCommand(app *App) *cobra.Command {
	var name, email, password, picture, otp string
	var semester int
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a student account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.enter(ctx, navigation.PathRegister); err != nil {
				return err
			}
			var err error
			if email, err = app.prompt.Value(ctx, email, "Email"); err != nil {
				return err
			}

			reg := app.auth.NewRegistration()
			if _, err := reg.RequestCode(ctx, email); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "OTP sent to %s\n", email)
			if otp, err = app.prompt.Value(ctx, otp, "OTP"); err != nil {
				return err
			}
			if err := reg.VerifyCode(ctx, otp); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "OTP verified.")

			if name, err = app.prompt.Value(ctx, name, "Name"); err != nil {
				return err
			}
			if password, err = app.prompt.Value(ctx, password, "Password"); err != nil {
				return err
			}
			pic, closePic, err := openAttachment(picture)
			if err != nil {
				return err
			}
			defer closePic()

			_, err = reg.Submit(ctx, models.RegisterRequest{
				Name:       name,
				Email:      email,
				Password:   password,
				Semester:   semester,
				ProfilePic: pic,
			})
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email to verify")
	cmd.Flags().StringVar(&password, "password", "", "password (8+ characters, an uppercase letter and a number)")
	cmd.Flags().IntVar(&semester, "semester", 0, "current semester, 1 to 4")
	cmd.Flags().StringVar(&picture, "picture", "", "profile picture file")
	cmd.Flags().StringVar(&otp, "otp", "", "one-time code (prompted when omitted)")
	return cmd
}

func newForgotPasswordCommand(app *App) *cobra.Command {
	var email, password, otp string
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Reset a password with an emailed one-time code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.enter(ctx, navigation.PathForgotPassword); err != nil {
				return err
			}
			var err error
			if email, err = app.prompt.Value(ctx, email, "Email"); err != nil {
				return err
			}

			reset := app.auth.NewPasswordReset()
			if _, err := reset.RequestCode(ctx, email); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "OTP sent to %s\n", email)
			if otp, err = app.prompt.Value(ctx, otp, "OTP"); err != nil {
				return err
			}
			if err := reset.VerifyCode(ctx, otp); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "OTP verified.")

			if password, err = app.prompt.Value(ctx, password, "New password"); err != nil {
				return err
			}
			_, err = reset.Submit(ctx, password)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&otp, "otp", "", "one-time code (prompted when omitted)")
	return cmd
}

// openAttachment opens path for a multipart upload. An empty path yields no attachment.
func openAttachment(path string) (*models.Attachment, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &models.Attachment{FileName: filepath.Base(path), Content: f}, func() { _ = f.Close() }, nil
}
