package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"greenpark/internal/config"
	"greenpark/internal/ui"
)

func whatsAppLinkCmd() *cobra.Command {
	var phone, message string
	cmd := &cobra.Command{
		Use:   "whatsapp-link",
		Short: "Print the click-to-chat link of the WhatsApp button",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv(os.Getenv)
			if err != nil {
				return err
			}
			if phone == "" {
				phone = cfg.WhatsAppPhone
			}
			if message == "" {
				message = cfg.WhatsAppMessage
			}
			if phone == "" {
				return errors.New("no phone number: pass --phone or set WHATSAPP_PHONE")
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.WhatsAppLink(phone, message))
			return nil
		},
	}
	cmd.Flags().StringVar(&phone, "phone", "", "phone number in international format, digits only")
	cmd.Flags().StringVar(&message, "message", "", "prefilled message")
	return cmd
}
