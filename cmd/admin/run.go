package main

import (
	"log"
	"net/http"

	"denuncias/backend/internal/api/handler"
	"denuncias/backend/internal/complaint"
	"denuncias/backend/internal/localization"
	"denuncias/backend/internal/storage"
	"denuncias/backend/internal/web"

	"github.com/spf13/cobra"
)

// newRunCmd starts a development server without Redis events.
func newRunCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start a development server (use cmd/main.go in production)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, cfg, err := openDatabase()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.HTTPAddr
			}

			messages, err := localization.NewLocalizer(web.Locales(), web.LocalesDir)
			if err != nil {
				return err
			}
			complaints := complaint.NewService(storage.NewStorageService(db, nil))

			r, err := handler.NewRouter(handler.NewHandler(complaints, messages))
			if err != nil {
				return err
			}
			log.Printf("Development server listening on %s", addr)
			return http.ListenAndServe(addr, r)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: $HTTP_ADDR)")
	return cmd
}
