package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/educonnect/internal/models"
	"github.com/noah-isme/educonnect/internal/navigation"
	"github.com/noah-isme/educonnect/internal/service"
)

func newProfileCommand(app *App) *cobra.Command {
	var name, picture string
	var semester int
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your name, semester or picture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := app.enter(ctx, navigation.PathUserProfile); err != nil {
				return err
			}
			if _, err := app.profile.Load(ctx); err != nil {
				return err
			}
			img, closeImg, err := openAttachment(picture)
			if err != nil {
				return err
			}
			defer closeImg()

			edit := service.ProfileEdit{Image: img}
			if cmd.Flags().Changed("name") {
				edit.Name = name
			}
			if cmd.Flags().Changed("semester") {
				edit.Semester = semester
			}
			outcome, err := app.profile.Update(ctx, edit)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.out, outcome.Message)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "new display name")
	update.Flags().IntVar(&semester, "semester", 0, "new semester, 1 to 4")
	update.Flags().StringVar(&picture, "picture", "", "new profile picture file")

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Your student profile",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show your profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				if err := app.enter(ctx, navigation.PathUserProfile); err != nil {
					return err
				}
				p, err := app.profile.Load(ctx)
				if err != nil {
					return err
				}
				printProfile(app, p)
				return nil
			},
		},
		update,
	)
	return cmd
}

func printProfile(app *App, p *models.UserProfile) {
	fmt.Fprintf(app.out, "Name:     %s\n", p.Name)
	fmt.Fprintf(app.out, "Email:    %s\n", p.Email)
	fmt.Fprintf(app.out, "Semester: %s\n", p.Semester)
	if p.ProfilePictureURL != "" {
		fmt.Fprintf(app.out, "Picture:  %s\n", p.ProfilePictureURL)
	}
}
