package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/mail"
)

// backoffice mirror:sync
var mirrorSyncCmd = &cobra.Command{
	Use:   "mirror:sync",
	Short: "Copy every catalog product to the MySQL mirror",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := app.Deps.Mirror.SyncAll(cmd.Context(), func(p services.SyncProgress) {
			mark := "ok"
			if !p.OK {
				mark = "FAILED: " + p.Error
			}
			fmt.Printf("[%d/%d] %s %s\n", p.Index, p.Total, p.ProductName, mark)
		})
		if err != nil {
			return err
		}
		fmt.Printf("Synced %d of %d products (%d failed).\n", report.Synced, report.Total, report.Failed)
		return nil
	},
}

// backoffice mirror:list
var mirrorListCmd = &cobra.Command{
	Use:   "mirror:list",
	Short: "List the products in the MySQL mirror",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		list, err := app.Deps.Mirror.List(cmd.Context())
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tACTIVE")
		for _, p := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", p.ID, p.Name, p.Category, p.IsActive)
		}
		return w.Flush()
	},
}

var (
	feedOut     string
	feedPublish bool
)

// backoffice feed:export
var feedExportCmd = &cobra.Command{
	Use:   "feed:export",
	Short: "Write the merchant XML feed to a file, stdout or the storage disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if feedPublish {
			url, err := app.Deps.Merchant.Publish(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println("Published:", url)
			return nil
		}

		data, err := app.Deps.Merchant.FeedXML(cmd.Context())
		if err != nil {
			return err
		}
		if feedOut == "" || feedOut == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(feedOut, data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %d bytes to %s\n", len(data), feedOut)
		return nil
	},
}

// backoffice feed:sync
var feedSyncCmd = &cobra.Command{
	Use:   "feed:sync",
	Short: "Push every active product to the merchant API",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		sum, err := app.Deps.Merchant.Sync(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	},
}

var mailTo string

// backoffice mail:test
var mailTestCmd = &cobra.Command{
	Use:   "mail:test",
	Short: "Send a test message through the configured mail driver",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}
		to := mailTo
		if to == "" {
			to = config.NotifyTo()
		}
		err := mail.To(to).
			Subject("Back-office mail test").
			Body("<p>This is a test message from the Sudevi back office.</p>").
			SendContext(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Sent test message to %s via %s.\n", to, mail.DefaultDriver().Name())
		return nil
	},
}

var (
	siteDir     string
	sitePublish bool
)

// backoffice site:generate
var siteGenerateCmd = &cobra.Command{
	Use:   "site:generate",
	Short: "Write robots.txt and sitemap.xml to a directory or the storage disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := boot(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		if sitePublish {
			urls, err := app.Deps.Site.Publish(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range urls {
				fmt.Println("Published:", u)
			}
			return nil
		}

		data, err := app.Deps.Site.Sitemap(cmd.Context())
		if err != nil {
			return err
		}
		if err := os.MkdirAll(siteDir, 0o755); err != nil {
			return err
		}
		files := []struct {
			name string
			body []byte
		}{
			{services.SitemapPath, data},
			{services.RobotsPath, app.Deps.Site.Robots()},
		}
		for _, f := range files {
			path := filepath.Join(siteDir, f.name)
			if err := os.WriteFile(path, f.body, 0o644); err != nil {
				return err
			}
			fmt.Println("Wrote", path)
		}
		return nil
	},
}

func init() {
	feedExportCmd.Flags().StringVarP(&feedOut, "out", "o", "", "Output file (default stdout)")
	feedExportCmd.Flags().BoolVar(&feedPublish, "publish", false, "Publish to the storage disk and record the feed URL")
	mailTestCmd.Flags().StringVar(&mailTo, "to", "", "Recipient (default MAIL_NOTIFY_TO)")
	siteGenerateCmd.Flags().StringVarP(&siteDir, "dir", "d", "dist", "Output directory")
	siteGenerateCmd.Flags().BoolVar(&sitePublish, "publish", false, "Publish to the storage disk instead")
}
