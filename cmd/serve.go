package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var (
	port     int
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP web server with HTMX interface.

The web server provides a browser-based dashboard for exploring registration
growth, with the same functionality as the TUI plus API endpoints.`,
		Run: func(cmd *cobra.Command, args []string) {
			runServe()
		},
	}
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntVarP(&port, "port", "p", 3000, "Port to run the server on")
}

func runServe() {
	store, cleanup, err := InitStore(dataDir, source, dbPath)
	if err != nil {
		HandleError(err, "Failed to initialize data store")
	}
	defer cleanup()

	fmt.Printf("Starting Vahan Dashboard web server...\n")
	fmt.Printf("Data directory: %s\n", dataDir)
	fmt.Printf("Port: %d\n\n", port)

	// Start the server (this will be implemented in main.go)
	if err := StartServer(store, port, dataDir); err != nil {
		log.Fatalf("Server failed: %v\n", err)
	}
}

// StartServer is set by main package
var StartServer func(store StoreInterface, port int, dataDir string) error
