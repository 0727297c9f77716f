package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmorales/scout/api"
	"github.com/jmorales/scout/chat"
	"github.com/jmorales/scout/config"
	"github.com/jmorales/scout/internal/cache"
	"github.com/jmorales/scout/internal/logger"
	"github.com/jmorales/scout/linkedin"
	"github.com/jmorales/scout/tui"
	"github.com/jmorales/scout/tui/styles"
)

var (
	// Flags
	baseURL string
	verbose bool
	noSync  bool

	postStyle  string
	postTone   string
	postLength int
	savePost   bool

	historyLimit  int
	historyOffset int

	rootCmd = &cobra.Command{
		Use:   "scout",
		Short: "Research assistant chat client",
		Long:  "Scout - a terminal client for the research assistant backend with chat, streaming answers, and LinkedIn post generation",
		RunE:  runTUI,
	}

	queryCmd = &cobra.Command{
		Use:   "query [message]",
		Short: "Send a one-shot research query without entering the TUI",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runQuery,
	}

	streamCmd = &cobra.Command{
		Use:   "stream [message]",
		Short: "Send a research query and print tool progress as it streams",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runStream,
	}

	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List past conversations",
		RunE:  runHistory,
	}

	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check backend liveness",
		RunE:  runHealth,
	}

	linkedinCmd = &cobra.Command{
		Use:   "linkedin",
		Short: "LinkedIn post commands",
	}

	generateCmd = &cobra.Command{
		Use:   "generate [content]",
		Short: "Generate a LinkedIn post from content (argument or stdin)",
		RunE:  runGenerate,
	}

	hashtagsCmd = &cobra.Command{
		Use:   "hashtags [content]",
		Short: "Suggest hashtags for content (argument or stdin)",
		RunE:  runHashtags,
	}

	postsCmd = &cobra.Command{
		Use:   "history",
		Short: "List saved LinkedIn posts",
		RunE:  runPostHistory,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "api-url", "", "Backend base URL (overrides config and SCOUT_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Flags().BoolVar(&noSync, "no-sync", false, "Skip the startup user sync")

	generateCmd.Flags().StringVar(&postStyle, "style", "", "Post style (e.g. professional, casual)")
	generateCmd.Flags().StringVar(&postTone, "tone", "", "Post tone (e.g. informative, inspiring)")
	generateCmd.Flags().IntVar(&postLength, "length", 0, "Target post length in characters")
	generateCmd.Flags().BoolVar(&savePost, "save", false, "Save the generated post")

	postsCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum posts to list")
	postsCmd.Flags().IntVar(&historyOffset, "offset", 0, "Pagination offset")

	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(linkedinCmd)
	linkedinCmd.AddCommand(generateCmd)
	linkedinCmd.AddCommand(hashtagsCmd)
	linkedinCmd.AddCommand(postsCmd)

	viper.SetEnvPrefix("SCOUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.BindPFlags(rootCmd.PersistentFlags())
}

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newClient builds the backend client from flags, env, and config
func newClient() (*api.Client, *config.Manager, error) {
	level := logger.LevelInfo
	if verbose || viper.GetBool("verbose") {
		level = logger.LevelDebug
	}
	if err := logger.Init(level); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	manager, err := config.NewManager()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	// Flag wins, then SCOUT_API_URL via viper, then the stored config
	base := baseURL
	if base == "" {
		base = viper.GetString("api-url")
	}
	if base == "" {
		base = manager.BaseURL()
	}

	client := api.NewClient(
		api.WithBaseURL(base),
		api.WithToken(manager.Token()),
	)
	return client, manager, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	client, manager, err := newClient()
	if err != nil {
		return err
	}
	defer logger.Close()

	// Best effort identity sync before the first authenticated call
	if !noSync && manager.Token() != "" {
		err := api.DefaultSyncRetry.Do(context.Background(), func() error {
			_, err := client.SyncUser(context.Background())
			return err
		})
		if err != nil {
			logger.Warnf("startup: user sync failed: %v", err)
		}
	}

	cacheDB, err := cache.Open()
	if err != nil {
		logger.Warnf("startup: local cache unavailable: %v", err)
		cacheDB = nil
	} else {
		defer cacheDB.Close()
	}

	store := chat.NewStore()
	app := tui.NewApp(client, store, cacheDB, styles.GetTheme(manager.Theme()))

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer logger.Close()

	resp, err := client.Research(context.Background(), strings.Join(args, " "), "")
	if err != nil {
		return fmt.Errorf("research query failed: %w", err)
	}

	fmt.Println(resp.Response)
	return nil
}

func runStream(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer logger.Close()

	events, err := client.ResearchStream(context.Background(), strings.Join(args, " "), "")
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}

	for event := range events {
		switch event.Type {
		case api.EventToolStart:
			fmt.Printf("⏳ %s...\n", event.Tool)
		case api.EventToolComplete:
			fmt.Printf("✓ %s\n", event.Tool)
		case api.EventFinalResponse:
			fmt.Println()
			fmt.Println(event.Response)
		case api.EventError:
			return fmt.Errorf("stream failed: %s", event.Error)
		}
	}
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer logger.Close()

	store := chat.NewStore()

	resp, err := client.ResearchHistory(context.Background())
	if err != nil {
		logger.Warnf("history: backend unavailable, trying cache: %v", err)
		cacheDB, cerr := cache.Open()
		if cerr != nil {
			return fmt.Errorf("failed to fetch history: %w", err)
		}
		defer cacheDB.Close()

		recs, cerr := cacheDB.Recent(200)
		if cerr != nil || len(recs) == 0 {
			return fmt.Errorf("failed to fetch history: %w", err)
		}
		fmt.Println("(backend unreachable, showing cached history)")
		store.LoadHistory(recs)
	} else {
		store.LoadHistory(resp.History)
	}

	sessions := store.Sessions()
	if len(sessions) == 0 {
		fmt.Println("No conversations yet.")
		return nil
	}

	for _, session := range sessions {
		fmt.Printf("%s  %-50s  %d messages\n",
			session.UpdatedAt.Format("2006-01-02 15:04"),
			session.Title,
			len(session.Messages))
	}
	return nil
}

func runHealth(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer logger.Close()

	resp, err := client.Health(context.Background())
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}

	fmt.Printf("Backend: %s\n", resp.Status)
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	client, manager, err := newClient()
	if err != nil {
		return err
	}
	defer logger.Close()

	content, err := contentFromArgsOrStdin(args)
	if err != nil {
		return err
	}

	style, tone, length := manager.PostDefaults()
	if postStyle != "" {
		style = postStyle
	}
	if postTone != "" {
		tone = postTone
	}
	if postLength > 0 {
		length = postLength
	}

	req := api.GenerateRequest{
		Content:      content,
		Style:        style,
		Tone:         tone,
		TargetLength: length,
	}

	post, err := client.GeneratePost(context.Background(), req)
	if err != nil {
		// Never leave the user empty handed: print the local fallback
		fmt.Fprintf(os.Stderr, "Generation failed (%v), showing fallback post:\n\n", err)
		post = linkedin.FallbackGenerated(content)
		fmt.Println(post.FullPost)
		return nil
	}

	fmt.Println(post.FullPost)
	fmt.Printf("\n%d characters, hashtags: %s\n", post.CharacterCount, strings.Join(post.Hashtags, " "))

	if savePost {
		saved, err := client.SavePost(context.Background(), api.SavePostRequest{
			OriginalContent: content,
			Hook:            post.Hook,
			MainContent:     post.MainContent,
			CTA:             post.CTA,
			Hashtags:        post.Hashtags,
			FullPost:        post.FullPost,
			EmojisUsed:      post.EmojisUsed,
			CharacterCount:  post.CharacterCount,
			Style:           style,
			Tone:            tone,
			TargetLength:    length,
		})
		if err != nil {
			return fmt.Errorf("failed to save post: %w", err)
		}
		fmt.Printf("Saved as %s\n", saved.ID)
	}
	return nil
}

func runHashtags(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer logger.Close()

	content, err := contentFromArgsOrStdin(args)
	if err != nil {
		return err
	}

	resp, err := client.Hashtags(context.Background(), content, 5)
	if err != nil {
		return fmt.Errorf("hashtag generation failed: %w", err)
	}

	fmt.Println(strings.Join(resp.Hashtags, " "))
	return nil
}

func runPostHistory(cmd *cobra.Command, args []string) error {
	client, _, err := newClient()
	if err != nil {
		return err
	}
	defer logger.Close()

	resp, err := client.PostHistory(context.Background(), historyLimit, historyOffset)
	if err != nil {
		return fmt.Errorf("failed to fetch saved posts: %w", err)
	}

	if len(resp.Posts) == 0 {
		fmt.Println("No saved posts.")
		return nil
	}

	for _, post := range resp.Posts {
		preview := post.FullPost
		if idx := strings.IndexByte(preview, '\n'); idx != -1 {
			preview = preview[:idx]
		}
		fmt.Printf("%s  %s  (%d chars)\n",
			post.CreatedAt.Format("2006-01-02 15:04"),
			preview,
			post.CharacterCount)
	}
	return nil
}

func contentFromArgsOrStdin(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", fmt.Errorf("no content provided (pass as argument or pipe to stdin)")
	}
	return content, nil
}
