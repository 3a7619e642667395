package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fwc-ai/hr-agent/internal/chatbot"
	"github.com/fwc-ai/hr-agent/internal/logger"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the HR knowledge base",
	Run: func(cmd *cobra.Command, _ []string) {
		runChat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("message", "m", "", "process a single message and exit")
}

func runChat(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	generator, err := newGenerator(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the gemini client", zap.Error(err))
	}

	store := connectDocstore(ctx, config, logger)
	if store != nil {
		defer store.Close(context.Background())
	}

	var bot *chatbot.Bot
	if store != nil {
		bot = newBot(ctx, generator, store, config, logger)
	} else {
		bot = chatbot.New(generator, nil, logger)
	}

	// Single message mode for scripting.
	if message := cmd.Flag("message").Value.String(); message != "" {
		fmt.Println(bot.Reply(ctx, message))
		return
	}

	fmt.Println("HR knowledge base chatbot. Type 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if lowered := strings.ToLower(input); lowered == "exit" || lowered == "quit" {
			fmt.Println("Chatbot: Goodbye!")
			return
		}

		fmt.Printf("Chatbot: %s\n\n", bot.Reply(ctx, input))
	}
}
