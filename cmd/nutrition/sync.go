// ABOUTME: CLI commands for Charm-based cross-device sync.
// ABOUTME: Supports link, unlink, status, push, pull, and reset operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/harperreed/nutrition/internal/charm"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync nutrition data across devices",
	Long: `Sync nutrition data across devices using Charm Cloud.

Each device pushes its full backup under its own key; pulling merges
every device's backup through the import reconciler, so the same food
logged on two devices dedups instead of doubling.

Your data is E2E encrypted with your SSH key before upload.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     nutrition sync link

  2. On other devices, link with the same Charm account:
     nutrition sync link

  3. Push and pull backups:
     nutrition sync push
     nutrition sync pull

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  push        Push a backup of the local store to the cloud
  pull        Merge all cloud backups into the local store
  reset       Reset local KV state and restore from cloud`,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "link")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")
		fmt.Println("Push a backup with 'nutrition sync push'.")
		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "unlink")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}

		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local nutrition data is preserved.")
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.GetClient()
		if err != nil {
			color.Yellow("Charm client not available: %v", err)
			fmt.Println("\nRun 'nutrition sync link' to connect to Charm.")
			return nil
		}

		id, err := client.ID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'nutrition sync link' to connect to Charm.")
			return nil
		}

		fmt.Println("Charm ID:", id)
		fmt.Println("Server: charm.2389.dev")
		fmt.Println()

		products, _ := repo.ListProducts(0)
		logs, _ := repo.ListDailyLogs(0)
		entries, _ := repo.ListFoodEntries(0)

		color.Green("✓ Connected to Charm")
		fmt.Printf("  Products:  %d\n", len(products))
		fmt.Printf("  Days:      %d\n", len(logs))
		fmt.Printf("  Entries:   %d\n", len(entries))
		if cfg.AutoSync {
			fmt.Println("  Auto-sync: on")
		} else {
			fmt.Println("  Auto-sync: off (enable with auto_sync in config)")
		}
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Push a backup to Charm Cloud",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.GetClient()
		if err != nil {
			return fmt.Errorf("charm client: %w", err)
		}

		if err := client.Push(repo); err != nil {
			return err
		}

		color.Green("✓ Backup pushed")
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Merge all cloud backups into the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.GetClient()
		if err != nil {
			return fmt.Errorf("charm client: %w", err)
		}

		summary, err := client.Pull(repo)
		if err != nil {
			return err
		}

		color.Green("✓ Pulled %d backup(s)", summary.Documents)
		fmt.Printf("  %d imported, %d already known\n", summary.Imported, summary.Skipped)
		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset local KV state and restore from cloud",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.GetClient()
		if err != nil {
			return fmt.Errorf("charm client: %w", err)
		}

		if err := client.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.Green("✓ Local sync state reset from cloud")
		fmt.Println("Run 'nutrition sync pull' to merge cloud backups.")
		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncResetCmd)
	rootCmd.AddCommand(syncCmd)
}
