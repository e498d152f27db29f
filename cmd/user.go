package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seven7ty/dscgg/dscgg"
)

func init() {
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(appCmd)
}

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user <discord id>",
	Short: "Show a dsc.gg user with their links and apps",
	Args:  cobra.ExactArgs(1),
	RunE:  runUser,
}

func runUser(cmd *cobra.Command, args []string) error {
	defer client.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user ID %q: %w", args[0], err)
	}

	var (
		user  *dscgg.User
		links []dscgg.Link
		apps  []dscgg.App
	)

	// The three lookups are independent; fetch them concurrently.
	g, ctx := errgroup.WithContext(cmd.Context())
	g.Go(func() error {
		var err error
		user, err = client.GetUser(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		links, err = client.GetUserLinks(ctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		apps, err = client.GetUserApps(ctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if user == nil {
		fmt.Printf("User %d not found.\n", id)
		return nil
	}

	fmt.Printf("User %s\n", user.ID)
	fmt.Printf("  Joined: %s\n", user.JoinedAt.Format("2006-01-02"))
	var flags []string
	if user.Premium {
		flags = append(flags, "premium")
	}
	if user.Verified {
		flags = append(flags, "verified")
	}
	if user.Blacklisted {
		flags = append(flags, "blacklisted")
	}
	if len(flags) > 0 {
		fmt.Printf("  Flags: %s\n", strings.Join(flags, ", "))
	}

	fmt.Printf("\nLinks (%d):\n", len(links))
	printLinkList(links)

	if len(apps) > 0 {
		fmt.Printf("\nApps (%d):\n", len(apps))
		for _, app := range apps {
			verified := ""
			if app.Verified {
				verified = " [verified]"
			}
			fmt.Printf("  • %s%s (created %s)\n", app.ID, verified, app.CreatedAt.Format("2006-01-02"))
		}
	}

	return nil
}

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:   "app <app id>",
	Short: "Look up a dsc.gg developer application",
	Args:  cobra.ExactArgs(1),
	RunE:  runApp,
}

func runApp(cmd *cobra.Command, args []string) error {
	defer client.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid app ID %q: %w", args[0], err)
	}

	app, err := client.GetApp(cmd.Context(), id)
	if err != nil {
		return err
	}
	if app == nil {
		fmt.Printf("App %d not found.\n", id)
		return nil
	}

	fmt.Printf("App %s\n", app.ID)
	fmt.Printf("  Owner: %s\n", app.OwnerID)
	fmt.Printf("  Created: %s\n", app.CreatedAt.Format("2006-01-02"))
	fmt.Printf("  Verified: %t\n", app.Verified)
	if app.Key != "" {
		fmt.Printf("  Key: %s\n", app.Key)
	}

	return nil
}
