package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/spf13/cobra"

	"github.com/hupe1980/calagent"
	"github.com/hupe1980/calagent/agent"
	"github.com/hupe1980/calagent/config"
	"github.com/hupe1980/calagent/core"
	"github.com/hupe1980/calagent/model"
	"github.com/hupe1980/calagent/model/anthropic"
	"github.com/hupe1980/calagent/model/openai"
	"github.com/hupe1980/calagent/tool"
)

func newChatCmd() *cobra.Command {
	var (
		envFile   string
		userEmail string
		timeZone  string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive calendar chat session",
		Long: `Starts an interactive shell where you can manage your Cal.com calendar
through natural language, e.g. "Book a meeting for tomorrow at 2pm" or
"What's on my calendar?".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}

			if userEmail != "" {
				cfg.UserEmail = userEmail
			}
			if timeZone != "" {
				cfg.DefaultTimeZone = timeZone
			}

			if cfg.UserEmail == "" {
				return fmt.Errorf("user email is required: set USER_EMAIL or pass --email")
			}

			return runChat(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file (default: ./.env if present)")
	cmd.Flags().StringVar(&userEmail, "email", "", "Email address used for calendar operations (overrides USER_EMAIL)")
	cmd.Flags().StringVar(&timeZone, "timezone", "", "IANA time zone for bookings (overrides DEFAULT_TIME_ZONE)")

	return cmd
}

func runChat(cmd *cobra.Command, cfg *config.Config) error {
	logger := newLogger(cfg)

	client, err := newCalClient(cfg, logger)
	if err != nil {
		return err
	}

	m, err := newModel(cfg)
	if err != nil {
		return err
	}

	a := agent.New("calagent", m, func(o *agent.Options) {
		o.Instruction = chatInstruction(cfg.UserEmail, cfg.DefaultTimeZone)
		o.Logger = logger
	})
	a.RegisterTools(tool.NewCalendarTools(client, func(o *tool.CalendarToolsOptions) {
		o.DefaultEventTypeSlug = cfg.DefaultEventTypeSlug
	}))

	assistant := calagent.New(a, func(o *calagent.Options) {
		o.Logger = logger
	})

	sessionID := core.NewID()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "calagent — Cal.com assistant (%s, %s)\n", cfg.UserEmail, cfg.DefaultTimeZone)
	fmt.Fprintln(out, `Type "exit" or "quit" to leave.`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			break
		}

		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "exit" || text == "quit" {
			break
		}

		reply, err := assistant.Chat(cmd.Context(), sessionID, text)
		if err != nil {
			fmt.Fprintf(out, "Error: %s\n", err)
			continue
		}

		fmt.Fprintf(out, "Assistant: %s\n", reply)
	}

	return scanner.Err()
}

// newModel picks the chat model implementation from the configuration.
func newModel(cfg *config.Config) (model.Model, error) {
	switch cfg.ModelProvider {
	case "", "openai":
		return openai.NewModel(func(o *openai.Options) {
			if cfg.ModelName != "" {
				o.Model = cfg.ModelName
			}
		}), nil
	case "anthropic":
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.ModelName != "" {
				o.Model = anthropicsdk.Model(cfg.ModelName)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q (supported: openai, anthropic)", cfg.ModelProvider)
	}
}

func chatInstruction(userEmail, timeZone string) string {
	return fmt.Sprintf(`You are a helpful assistant for managing calendar events using Cal.com.
- You can list, book, and cancel events.
- When booking, you must confirm the desired date and time.
- Before booking, you must confirm the details with the user.
- The user's email is '%s'. You should use this email for all operations.
- The user's timezone is '%s'. Use this for booking.
- When listing events, provide the Booking ID as it is required for cancellations.
- Be polite and conversational.`, userEmail, timeZone)
}
