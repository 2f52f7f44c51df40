// Command resultctl is the terminal front end of the results portal: public
// search by roll number plus the admin login and result management screens.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"results-portal/client"

	"github.com/spf13/cobra"
)

var (
	serverURL   string
	sessionPath string
)

var rootCmd = &cobra.Command{
	Use:           "resultctl",
	Short:         "Search and manage student exam results",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	defaultURL := os.Getenv("RESULTS_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000/api"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultURL, "Results API base URL (or set RESULTS_API_URL)")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Session file (default: user config dir)")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
}

// openClient loads the session and builds an API client bound to it.
func openClient() (*client.Client, *client.Session, error) {
	path := sessionPath
	if path == "" {
		var err error
		if path, err = client.DefaultSessionPath(); err != nil {
			return nil, nil, err
		}
	}
	session, err := client.OpenSession(path)
	if err != nil {
		return nil, nil, err
	}
	return client.New(serverURL, session), session, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, client.Notice(err))
		if os.Getenv("RESULTCTL_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, "debug: %+v\n", err)
		}
		os.Exit(1)
	}
}
