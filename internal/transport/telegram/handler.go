package telegram

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	cachedomain "github.com/reshetovitsme/channel-scout/internal/modules/cache/domain"
	historyService "github.com/reshetovitsme/channel-scout/internal/modules/history/service"
	quotaService "github.com/reshetovitsme/channel-scout/internal/modules/quota/service"
	searchdomain "github.com/reshetovitsme/channel-scout/internal/modules/search/domain"
	searchService "github.com/reshetovitsme/channel-scout/internal/modules/search/service"
	settingsService "github.com/reshetovitsme/channel-scout/internal/modules/settings/service"
	"github.com/reshetovitsme/channel-scout/internal/shared/config"
	"github.com/reshetovitsme/channel-scout/internal/shared/errors"
)

// Sender is the part of the bot API the handler talks to. *bot.Bot implements it.
type Sender interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	DeleteMessage(ctx context.Context, params *bot.DeleteMessageParams) (bool, error)
}

// CacheAdmin exposes cache maintenance to bot commands.
type CacheAdmin interface {
	Stats(ctx context.Context) cachedomain.Stats
	EvictExpired(ctx context.Context) int
	EvictAll(ctx context.Context) int
}

type commandFunc func(ctx context.Context, s Sender, msg *models.Message)

// Handler handles Telegram bot interactions
type Handler struct {
	cfg      *config.Config
	sessions *searchService.Manager
	settings *settingsService.Service
	history  *historyService.Service
	cache    CacheAdmin

	// searches started from chat outlive the update that started them
	runCtx    context.Context
	cancelRun context.CancelFunc
}

// New creates a new Telegram handler
func New(
	cfg *config.Config,
	sessions *searchService.Manager,
	settings *settingsService.Service,
	history *historyService.Service,
	cache CacheAdmin,
) *Handler {
	runCtx, cancel := context.WithCancel(context.Background())
	return &Handler{
		cfg:       cfg,
		sessions:  sessions,
		settings:  settings,
		history:   history,
		cache:     cache,
		runCtx:    runCtx,
		cancelRun: cancel,
	}
}

// Stop cancels searches started from chat
func (h *Handler) Stop() {
	h.cancelRun()
}

// RegisterCommands registers bot commands
func (h *Handler) RegisterCommands(b *bot.Bot) {
	exact := map[string]commandFunc{
		"/start":   h.handleStart,
		"/help":    h.handleHelp,
		"/agree":   h.handleAgree,
		"/more":    h.handleMore,
		"/results": h.handleResults,
		"/quota":   h.handleQuota,
		"/cache":   h.handleCache,
		"/status":  h.handleStatus,
		"/history": h.handleHistory,
		"/forget":  h.handleForget,
	}
	for cmd, fn := range exact {
		b.RegisterHandler(bot.HandlerTypeMessageText, cmd, bot.MatchTypeExact, h.wrap(fn))
	}

	prefix := map[string]commandFunc{
		"/setkey":     h.handleSetKey,
		"/search":     h.handleSearch,
		"/clearcache": h.handleClearCache,
	}
	for cmd, fn := range prefix {
		b.RegisterHandler(bot.HandlerTypeMessageText, cmd, bot.MatchTypePrefix, h.wrap(fn))
	}
}

func (h *Handler) wrap(fn commandFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil || update.Message.From == nil {
			return
		}
		fn(ctx, b, update.Message)
	}
}

// HandleUpdate processes updates no command matched
func (h *Handler) HandleUpdate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Chat.Type != "private" {
		return
	}
	if !h.checkAuthorization(update.Message.From.ID) {
		return
	}
	h.reply(ctx, b, update.Message.Chat.ID, "Unknown command. Use /help to see what I can do.")
}

func (h *Handler) checkAuthorization(userID int64) bool {
	return h.settings.IsAuthorized(userID, h.cfg.AllowedUsers)
}

// authorized replies and returns false when the sender may not use the bot.
func (h *Handler) authorized(ctx context.Context, s Sender, msg *models.Message) bool {
	if h.checkAuthorization(msg.From.ID) {
		return true
	}
	h.reply(ctx, s, msg.Chat.ID, "❌ Unauthorized")
	return false
}

func (h *Handler) reply(ctx context.Context, s Sender, chatID int64, text string) {
	_, err := s.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		slog.Error("Failed to send message", "chat_id", chatID, "error", err)
	}
}

// session returns the chat's search session.
func (h *Handler) session(chatID int64) *searchService.Session {
	return h.sessions.ForOwner(fmt.Sprintf("telegram:%d", chatID))
}

func commandArgs(text string) string {
	_, args, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(args)
}

func (h *Handler) handleStart(ctx context.Context, s Sender, msg *models.Message) {
	if !h.checkAuthorization(msg.From.ID) {
		h.reply(ctx, s, msg.Chat.ID, "❌ You are not authorized to use this bot.")
		return
	}
	if _, err := h.settings.GetOrCreate(msg.From.ID, msg.From.Username); err != nil {
		slog.Error("Failed to save user", "error", err, "user_id", msg.From.ID)
	}
	h.reply(ctx, s, msg.Chat.ID, welcomeText)
}

func (h *Handler) handleHelp(ctx context.Context, s Sender, msg *models.Message) {
	h.handleStart(ctx, s, msg)
}

func (h *Handler) handleAgree(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}
	if err := h.settings.Agree(msg.From.ID, msg.From.Username); err != nil {
		h.reply(ctx, s, msg.Chat.ID, fmt.Sprintf("❌ Failed to save consent: %v", err))
		return
	}
	h.reply(ctx, s, msg.Chat.ID, "✅ Thank you. "+termsText+"\n\nNext, save your API key with /setkey <key>.")
}

func (h *Handler) handleSetKey(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}

	key := commandArgs(msg.Text)
	if key == "" {
		h.reply(ctx, s, msg.Chat.ID, "Usage: /setkey <YouTube Data API v3 key>")
		return
	}

	// the key should not linger in the chat history
	if _, err := s.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: msg.Chat.ID, MessageID: msg.ID}); err != nil {
		slog.Debug("Failed to delete key message", "chat_id", msg.Chat.ID, "error", err)
	}

	if err := h.settings.SetAPIKey(msg.From.ID, msg.From.Username, key); err != nil {
		h.reply(ctx, s, msg.Chat.ID, "❌ "+errors.UserMessage(err))
		return
	}
	settings, err := h.settings.GetSettings(msg.From.ID)
	if err != nil {
		h.reply(ctx, s, msg.Chat.ID, "✅ API key saved.")
		return
	}
	h.reply(ctx, s, msg.Chat.ID, fmt.Sprintf("✅ API key %s saved.", settings.MaskedAPIKey()))
}

// apiKey resolves the key a user searches with, falling back to the server key.
func (h *Handler) apiKey(userID int64) (string, error) {
	key, err := h.settings.ReadyToSearch(userID)
	if stderrors.Is(err, errors.ErrMissingAPIKey) && h.cfg.YouTubeAPIKey != "" {
		return h.cfg.YouTubeAPIKey, nil
	}
	return key, err
}

func (h *Handler) handleSearch(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}

	terms := config.ParseTerms(commandArgs(msg.Text))
	if len(terms) == 0 {
		terms = h.cfg.Search.Terms
	}
	if len(terms) == 0 {
		h.reply(ctx, s, msg.Chat.ID, "Usage: /search <term1, term2, term3>\nExample: /search lofi music, study beats")
		return
	}

	key, err := h.apiKey(msg.From.ID)
	if err != nil {
		h.reply(ctx, s, msg.Chat.ID, "❌ "+errors.UserMessage(err)+hintFor(err))
		return
	}

	req := searchdomain.Request{
		APIKey:             key,
		SearchTerms:        terms,
		MinSubscriberCount: h.cfg.Search.MinSubscribers,
		MinViewCount:       h.cfg.Search.MinViews,
		MaxPagesPerTerm:    h.cfg.Search.MaxPages,
		ChannelAgeMonths:   h.cfg.Search.AgeMonths,
	}.Normalize()

	sess := h.session(msg.Chat.ID)
	h.start(ctx, s, msg.Chat.ID, sess, fmt.Sprintf("🔎 Searching for: %s", strings.Join(req.SearchTerms, ", ")),
		func(done func(searchdomain.Summary, error)) error {
			return sess.StartSearch(h.runCtx, req, done)
		})
}

func (h *Handler) handleMore(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}

	sess := h.session(msg.Chat.ID)
	h.start(ctx, s, msg.Chat.ID, sess, "", func(done func(searchdomain.Summary, error)) error {
		return sess.StartLoadMore(h.runCtx, done)
	})
}

// start claims the session through begin and, once the run is under way, posts its stage
// changes and outcome to the chat. A rejected start is answered right away.
func (h *Handler) start(
	ctx context.Context,
	s Sender,
	chatID int64,
	sess *searchService.Session,
	announce string,
	begin func(done func(searchdomain.Summary, error)) error,
) {
	events, cancel := sess.Subscribe(64)
	forwarded := make(chan struct{})

	err := begin(func(summary searchdomain.Summary, err error) {
		cancel()
		<-forwarded
		h.report(s, chatID, sess, summary, err)
	})
	if err != nil {
		cancel()
		h.reply(ctx, s, chatID, rejectIcon(err)+errors.UserMessage(err))
		return
	}

	if announce != "" {
		h.reply(ctx, s, chatID, announce)
	}
	go func() {
		defer close(forwarded)
		for e := range events {
			if e.Kind != searchdomain.EventKindStage || e.Message == "" {
				continue
			}
			if e.Stage == searchdomain.StageDone || e.Stage == searchdomain.StageError {
				continue
			}
			h.reply(h.runCtx, s, chatID, "⏳ "+e.Message)
		}
	}()
}

func (h *Handler) report(s Sender, chatID int64, sess *searchService.Session, summary searchdomain.Summary, err error) {
	if err != nil {
		h.reply(h.runCtx, s, chatID, "❌ "+errors.UserMessage(err))
		return
	}

	text := summary.Message
	if top := formatResults(sess.Snapshot().Results, 5); top != "" {
		text += "\n\n" + top
	}
	if summary.HasMore {
		text += "\n\nUse /more to analyze the next channels."
	}
	h.reply(h.runCtx, s, chatID, text)
}

func (h *Handler) handleResults(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}

	sess := h.session(msg.Chat.ID)
	snap := sess.Snapshot()
	if len(snap.Results) == 0 {
		h.reply(ctx, s, msg.Chat.ID, "📭 No matching channels yet.\nUse /search to start a search.")
		return
	}

	text := fmt.Sprintf("📋 %d matching channels:\n\n%s", len(snap.Results), formatResults(snap.Results, 20))
	if h.cfg.PublicBaseURL != "" {
		text += fmt.Sprintf("\n\n🔗 Feed: %s/api/sessions/%s/feed.rss", h.cfg.PublicBaseURL, sess.ID)
	}
	h.reply(ctx, s, msg.Chat.ID, text)
}

func (h *Handler) handleQuota(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}

	sess := h.session(msg.Chat.ID)
	analysis := quotaService.Analyze(sess.Snapshot().Quota, h.cache.Stats(ctx), h.cfg.Quota.DailyLimit)

	text := formatAnalysis(analysis)
	daily, err := h.history.QuotaSince(sess.Owner, time.Now().Add(-24*time.Hour))
	if err != nil {
		slog.Error("Failed to read run history", "owner", sess.Owner, "error", err)
	} else {
		text += fmt.Sprintf("\n\nLast 24 hours: %d units", daily)
	}
	h.reply(ctx, s, msg.Chat.ID, text)
}

func (h *Handler) handleCache(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}
	stats := h.cache.Stats(ctx)
	h.reply(ctx, s, msg.Chat.ID, fmt.Sprintf(`💾 Cache:

Entries: %d (valid: %d, expired: %d)
Size: ~%d KB
Backend: %s`,
		stats.TotalEntries, stats.ValidEntries, stats.ExpiredEntries, stats.SizeKB(), h.cfg.Cache.Backend))
}

func (h *Handler) handleClearCache(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}

	if commandArgs(msg.Text) == "all" {
		removed := h.cache.EvictAll(ctx)
		h.reply(ctx, s, msg.Chat.ID, fmt.Sprintf("🧹 Removed all %d cache entries.", removed))
		return
	}
	removed := h.cache.EvictExpired(ctx)
	h.reply(ctx, s, msg.Chat.ID, fmt.Sprintf("🧹 Removed %d expired cache entries.\nUse /clearcache all to drop everything.", removed))
}

func (h *Handler) handleStatus(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}

	snap := h.session(msg.Chat.ID).Snapshot()
	text := fmt.Sprintf(`📊 Status:

Stage: %s
Message: %s
Results: %d
Pending: %d
Quota used: %d
Sessions: %d`,
		snap.Stage, fallback(snap.Message, "-"), len(snap.Results), snap.PendingCount, snap.Quota.Total, h.sessions.Len())
	if users, err := h.settings.GetAllSettings(); err != nil {
		slog.Error("Failed to list users", "error", err)
	} else {
		text += fmt.Sprintf("\nUsers: %d", len(users))
	}
	if snap.Progress.Total > 0 {
		text += fmt.Sprintf("\nProgress: %d/%d", snap.Progress.Current, snap.Progress.Total)
	}
	if snap.Error != "" {
		text += "\nLast error: " + snap.Error
	}
	h.reply(ctx, s, msg.Chat.ID, text)
}

func (h *Handler) handleHistory(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}

	sess := h.session(msg.Chat.ID)
	runs, err := h.history.GetRuns(sess.Owner, 5)
	if err != nil {
		h.reply(ctx, s, msg.Chat.ID, fmt.Sprintf("❌ Failed to read history: %v", err))
		return
	}
	if len(runs) == 0 {
		h.reply(ctx, s, msg.Chat.ID, "📭 No searches yet.")
		return
	}
	h.reply(ctx, s, msg.Chat.ID, formatRuns(runs))
}

func (h *Handler) handleForget(ctx context.Context, s Sender, msg *models.Message) {
	if !h.authorized(ctx, s, msg) {
		return
	}

	sess := h.session(msg.Chat.ID)
	if err := sess.Clear(); err != nil {
		h.reply(ctx, s, msg.Chat.ID, "⏳ "+errors.UserMessage(err))
		return
	}
	if err := h.settings.Forget(msg.From.ID); err != nil {
		h.reply(ctx, s, msg.Chat.ID, fmt.Sprintf("❌ Failed to delete your data: %v", err))
		return
	}
	h.reply(ctx, s, msg.Chat.ID, "🗑 Your API key, consent and results were deleted.")
}
