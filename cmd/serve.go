package cmd

import (
	"errors"
	"os"

	"github.com/theirongolddev/wishjar/internal/logging"
	"github.com/theirongolddev/wishjar/internal/server"
	"github.com/theirongolddev/wishjar/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagServeAddr   string
	flagServeEvents int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP sync server",
	Long:  "Serve savings records over HTTP so other wishjar clients can use the remote backend.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().IntVar(&flagServeEvents, "events-buffer", 0, "Max in-memory events retained (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Storage.Backend == store.BackendRemote {
		return errors.New("the sync server cannot use the remote backend")
	}
	if flagServeAddr != "" {
		cfg.Server.Addr = flagServeAddr
	}
	if flagServeEvents > 0 {
		cfg.Server.EventsBuffer = flagServeEvents
	}

	// Server logs are JSON on stdout at info unless asked otherwise.
	if !cmd.Flags().Changed("log-level") {
		flagLogLevel = "info"
	}
	logger := newLogger(os.Stdout, logging.FormatJSON)

	st, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := server.New(server.Config{
		Addr:         cfg.Server.Addr,
		EventsBuffer: cfg.Server.EventsBuffer,
		Backend:      cfg.Storage.Backend,
		Debug:        flagDebug,
	}, st, logger)

	return svc.Run(cmd.Context())
}
