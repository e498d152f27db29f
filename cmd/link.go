package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seven7ty/dscgg/dscgg"
)

var (
	// Link command flags
	embedTitle       string
	embedDescription string
	embedColor       string
	embedImage       string
	linkPassword     string
	linkUnlisted     bool
	updateRedirect   string
)

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)

	for _, cmd := range []*cobra.Command{createCmd, updateCmd} {
		cmd.Flags().StringVar(&embedTitle, "title", "", "embed title")
		cmd.Flags().StringVar(&embedDescription, "description", "", "embed description")
		cmd.Flags().StringVar(&embedColor, "color", "", "embed color as #rrggbb")
		cmd.Flags().StringVar(&embedImage, "image", "", "embed image URL")
		cmd.Flags().StringVar(&linkPassword, "password", "", "password restricting access to the link")
		cmd.Flags().BoolVar(&linkUnlisted, "unlisted", false, "hide the link from top pages and discovery")
	}
	updateCmd.Flags().StringVar(&updateRedirect, "redirect", "", "new redirect target")
}

// getCmd represents the get command
var getCmd = &cobra.Command{
	Use:   "get <slug or link>",
	Short: "Look up a dsc.gg link",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	defer client.Close()

	link, err := client.GetLink(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if link == nil {
		fmt.Printf("Link %q not found.\n", dscgg.NormalizeSlug(args[0]))
		return nil
	}

	printLink(link)
	return nil
}

func printLink(link *dscgg.Link) {
	fmt.Printf("%s → %s\n", link.URL(), link.RedirectURL())
	fmt.Printf("  Type: %s\n", link.Type)
	fmt.Printf("  Owner: %s\n", link.Owner)
	fmt.Printf("  Created: %s\n", link.CreatedAt.Format("2006-01-02"))
	if link.BumpedAt != nil && !link.BumpedAt.IsZero() {
		fmt.Printf("  Bumped: %s\n", link.BumpedAt.Format("2006-01-02"))
	}
	if link.Unlisted {
		fmt.Println("  Unlisted")
	}
	if link.Disabled {
		fmt.Println("  Disabled")
	}
	if link.Meta != nil {
		if link.Meta.Title != "" {
			fmt.Printf("  Embed: %s\n", link.Meta.Title)
		}
		if link.Meta.Color != nil {
			fmt.Printf("  Embed color: %s\n", link.Meta.Color.Hex())
		}
	}
}

// embedFromFlags builds an Embed from the shared embed flags, or nil when
// none were set.
func embedFromFlags() (*dscgg.Embed, error) {
	if embedTitle == "" && embedDescription == "" && embedColor == "" && embedImage == "" {
		return nil, nil
	}

	embed := &dscgg.Embed{
		Title:       embedTitle,
		Description: embedDescription,
		Image:       embedImage,
	}
	if embedColor != "" {
		color, err := dscgg.ColorFromHex(embedColor)
		if err != nil {
			return nil, err
		}
		embed.Color = &color
	}
	return embed, nil
}

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create <slug> <redirect>",
	Short: "Create a dsc.gg link",
	Long: `Create a dsc.gg link pointing at the given redirect. The link type is
derived from the redirect target (Discord invite, template or OAuth URL).`,
	Args: cobra.ExactArgs(2),
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	defer client.Close()

	embed, err := embedFromFlags()
	if err != nil {
		return err
	}

	status, err := client.CreateLink(cmd.Context(), args[0], args[1], &dscgg.LinkOptions{
		Embed:    embed,
		Password: linkPassword,
		Unlisted: linkUnlisted,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created dsc.gg/%s (status %d)\n", dscgg.NormalizeSlug(args[0]), status)
	return nil
}

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update <slug>",
	Short: "Update a dsc.gg link",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	defer client.Close()

	embed, err := embedFromFlags()
	if err != nil {
		return err
	}

	status, err := client.UpdateLink(cmd.Context(), args[0], &dscgg.UpdateOptions{
		Redirect: updateRedirect,
		Embed:    embed,
		Password: linkPassword,
		Unlisted: linkUnlisted,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Updated dsc.gg/%s (status %d)\n", dscgg.NormalizeSlug(args[0]), status)
	return nil
}

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a dsc.gg link",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	defer client.Close()

	slug := dscgg.NormalizeSlug(args[0])

	fmt.Printf("Delete dsc.gg/%s? [y/N]: ", slug)
	var response string
	fmt.Scanln(&response)
	if strings.ToLower(strings.TrimSpace(response)) != "y" {
		logger.Info().Str("slug", slug).Msg("Deletion cancelled")
		return nil
	}

	status, err := client.DeleteLink(cmd.Context(), slug)
	if err != nil {
		return err
	}

	fmt.Printf("Deleted dsc.gg/%s (status %d)\n", slug, status)
	return nil
}
