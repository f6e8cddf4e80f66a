package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/xinyuew3S2024/NewsByMood/config"
	"github.com/xinyuew3S2024/NewsByMood/internal/agent"
	agenttele "github.com/xinyuew3S2024/NewsByMood/internal/agent/telemetry"
	"github.com/xinyuew3S2024/NewsByMood/provider"
	"github.com/xinyuew3S2024/NewsByMood/session"
	"github.com/xinyuew3S2024/NewsByMood/tools/news_search"
)

func chatCMD() *cobra.Command {
	var cfgPath string
	var chat = &cobra.Command{
		Use:   "chat",
		Short: "Chat with the news assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(cfgPath)
			return runChat(cfg)
		},
	}
	chat.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default is .)")

	return chat
}

func runChat(cfg *config.Config) error {
	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return err
	}
	retriever, err := news_search.NewRetriever(
		news_search.Provider(cfg.Search.Provider),
		cfg.Search.APIKey,
		news_search.Options{
			Endpoint:     cfg.Search.Endpoint,
			Region:       cfg.Search.Region,
			Language:     cfg.Search.Language,
			GoogleDomain: cfg.Search.GoogleDomain,
			Timeout:      cfg.Search.Timeout,
		},
	)
	if err != nil {
		return err
	}

	tele := agenttele.NewTelemetry(nil)
	orchLogger := log.New(os.Stderr, "[ORCH] ", log.LstdFlags)
	orch, err := agent.NewOrchestrator(cfg, orchLogger, llm, retriever, tele)
	if err != nil {
		return err
	}

	store := session.NewStore(session.StoreType(cfg.Session.Store), agent.SystemPrompt())
	conv, err := store.EnsureConversation("", cfg.Session.TTL)
	if err != nil {
		return err
	}

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)

	fmt.Println("Mood-Sensitive News Chatbot")
	fmt.Println("Type your message to receive top news tailored to your mood. Ctrl-D to quit.")
	fmt.Println()
	fmt.Println("Assistant: How has your day been so far?")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		reply, err := orch.HandleTurn(context.Background(), line, conv)
		if err != nil {
			return err
		}

		fmt.Println("\nAssistant:")
		if renderer != nil {
			if out, rerr := renderer.Render(reply); rerr == nil {
				fmt.Print(out)
				continue
			}
		}
		fmt.Println(reply)
	}
	return scanner.Err()
}
