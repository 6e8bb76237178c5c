package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/medtrack/core/cmd/api/commands"
	_ "github.com/medtrack/core/docs"
)

// @title MedTrack API
// @version 1.0
// @description Personal medication tracking service with daily schedules, dashboard summaries and refill reminders

// @contact.name MedTrack Support
// @contact.url https://github.com/medtrack/core

// @license.name MIT
// @license.url https://github.com/medtrack/core/blob/main/LICENSE

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "medtrack",
		Short: "MedTrack API Server",
		Long:  `MedTrack tracks personal medications and derives daily intake schedules, dashboard summaries and refill reminders from them.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
