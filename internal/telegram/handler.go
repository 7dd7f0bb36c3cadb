// Package telegram adapts inbound bot updates into quiz engine and
// authoring calls, and renders the results back as messages and polls.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"quizbot/internal/app"
	"quizbot/internal/domain"
	"quizbot/internal/pollfetch"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api       *tgbotapi.BotAPI
	engine    *app.Engine
	authoring *app.Authoring
	fetcher   *pollfetch.Client

	// drafts holds per-chat authoring conversations. The update loop is
	// sequential, so no locking is needed here.
	drafts map[int64]*draftFlow
	// polls maps sent poll IDs to the chat they were posted in, so answer
	// feedback lands in the right place.
	polls map[string]int64
}

func NewBot(token string, engine *app.Engine, authoring *app.Authoring, fetcher *pollfetch.Client) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:       api,
		engine:    engine,
		authoring: authoring,
		fetcher:   fetcher,
		drafts:    make(map[int64]*draftFlow),
		polls:     make(map[string]int64),
	}, nil
}

// Start runs the update loop until ctx is canceled.
func (b *Bot) Start(ctx context.Context) {
	log.Printf("authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.PollAnswer != nil:
		b.handlePollAnswer(ctx, update.PollAnswer)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	if msg.Poll != nil {
		b.handleForwardedPoll(msg)
		return
	}
	if flow, ok := b.drafts[msg.Chat.ID]; ok {
		b.continueFlow(ctx, msg, flow)
		return
	}
	b.reply(msg.Chat.ID, "I didn't understand that. Use /help to see available commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, fmt.Sprintf(
			"Hello, %s! I'm the Quiz Bot 🎯\n\n"+
				"Use /play to start a quiz\n"+
				"Use /add to create a new quiz question\n"+
				"Use /help to see all available commands", msg.From.FirstName))
	case "help":
		b.reply(msg.Chat.ID,
			"📚 Available Commands 📚\n\n"+
				"/start - Start the bot\n"+
				"/play [id|category] - Play a quiz (random, by ID, or by category)\n"+
				"/stats - View your quiz statistics\n"+
				"/add - Create a new quiz question\n"+
				"/list - List all available quizzes\n"+
				"/clone - Clone a quiz from a Telegram link\n"+
				"/edit <id> - Edit an existing quiz\n"+
				"/remove [id] - Delete a quiz question\n"+
				"/cancel - Cancel current operation\n"+
				"/help - Show this help message\n\n"+
				"You can also forward me a poll and I'll offer to save it!")
	case "play":
		b.handlePlay(ctx, msg)
	case "stats":
		b.handleStats(ctx, msg)
	case "list":
		b.handleList(ctx, msg)
	case "add":
		b.startAddFlow(msg.Chat.ID)
	case "clone":
		b.startCloneFlow(ctx, msg)
	case "edit":
		b.startEditFlow(ctx, msg)
	case "remove":
		b.handleRemove(ctx, msg)
	case "cancel":
		delete(b.drafts, msg.Chat.ID)
		b.reply(msg.Chat.ID, "Operation cancelled. Use /help to see available commands.")
	default:
		b.reply(msg.Chat.ID, "Unknown command. Use /help to see available commands.")
	}
}

func (b *Bot) handlePlay(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())

	// A numeric argument picks that question by ID; anything else is a
	// category filter on the random pool.
	var prompt domain.Prompt
	if id, idErr := strconv.ParseInt(arg, 10, 64); idErr == nil && arg != "" {
		question, err := b.authoring.GetQuestion(ctx, id)
		if err != nil {
			b.replyError(msg.Chat.ID, err)
			return
		}
		prompt = b.engine.StartSessionWithQuestion(msg.From.ID, question)
	} else {
		p, err := b.engine.StartSession(ctx, msg.From.ID, arg)
		if err != nil {
			b.replyError(msg.Chat.ID, err)
			return
		}
		prompt = p
	}

	poll := tgbotapi.NewPoll(msg.Chat.ID, prompt.Text, prompt.Options...)
	poll.IsAnonymous = false
	sent, err := b.api.Send(poll)
	if err != nil {
		log.Printf("error sending poll: %v", err)
		return
	}
	if sent.Poll != nil {
		b.polls[sent.Poll.ID] = msg.Chat.ID
	}
}

func (b *Bot) handlePollAnswer(ctx context.Context, answer *tgbotapi.PollAnswer) {
	chatID, known := b.polls[answer.PollID]
	if known {
		delete(b.polls, answer.PollID)
	} else {
		chatID = answer.User.ID
	}
	if len(answer.OptionIDs) == 0 {
		// vote retracted
		return
	}

	verdict, err := b.engine.SubmitAnswer(ctx, answer.User.ID, answer.User.FirstName, answer.OptionIDs[0])
	if err != nil {
		b.replyError(chatID, err)
		return
	}

	var text string
	if verdict.Correct {
		text = "✅ Correct!"
	} else {
		text = fmt.Sprintf("❌ Wrong! The correct answer is: %s", verdict.CorrectText)
	}
	if verdict.Explanation != "" {
		text += "\n💡 " + verdict.Explanation
	}
	text += fmt.Sprintf("\n\nScore: %d/%d (%.1f%%). Use /play to try another quiz!",
		verdict.Stats.Correct, verdict.Stats.Answered, verdict.Stats.Accuracy()*100)
	b.reply(chatID, text)
}

func (b *Bot) handleStats(ctx context.Context, msg *tgbotapi.Message) {
	stat, err := b.engine.UserStats(ctx, msg.From.ID)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}
	if stat.Answered == 0 {
		b.reply(msg.Chat.ID, "You haven't answered any quiz questions yet. Use /play to start a quiz!")
		return
	}

	text := fmt.Sprintf(
		"📊 Your Quiz Statistics 📊\n\n"+
			"Total questions answered: %d\n"+
			"Correct answers: %d\n"+
			"Accuracy: %.1f%%",
		stat.Answered, stat.Correct, stat.Accuracy()*100)
	if len(stat.Categories) > 0 {
		text += "\n\nBy category:"
		for category, cs := range stat.Categories {
			text += fmt.Sprintf("\n- %s: %d/%d", category, cs.Correct, cs.Answered)
		}
	}
	b.reply(msg.Chat.ID, text)
}

func (b *Bot) handleList(ctx context.Context, msg *tgbotapi.Message) {
	questions, err := b.authoring.ListQuestions(ctx)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}
	if len(questions) == 0 {
		b.reply(msg.Chat.ID, "No quiz questions available. Use /add to create some!")
		return
	}

	byCategory := make(map[string][]domain.Question)
	var order []string
	for _, q := range questions {
		category := q.Category
		if category == "" {
			category = "General"
		}
		if _, seen := byCategory[category]; !seen {
			order = append(order, category)
		}
		byCategory[category] = append(byCategory[category], q)
	}

	var sb strings.Builder
	sb.WriteString("📋 Available Quiz Questions 📋\n\n")
	for _, category := range order {
		group := byCategory[category]
		fmt.Fprintf(&sb, "%s (%d)\n", category, len(group))
		for i, q := range group {
			if i == 5 {
				fmt.Fprintf(&sb, "  ... and %d more\n", len(group)-5)
				break
			}
			fmt.Fprintf(&sb, "- ID %d: %s\n", q.ID, truncate(q.Prompt, 30))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Use /play to play a random quiz, or /edit <id> to edit a question.")
	b.reply(msg.Chat.ID, sb.String())
}

func (b *Bot) handleRemove(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		questions, err := b.authoring.ListQuestions(ctx)
		if err != nil {
			b.replyError(msg.Chat.ID, err)
			return
		}
		if len(questions) == 0 {
			b.reply(msg.Chat.ID, "No quiz questions available to remove.")
			return
		}
		var rows [][]tgbotapi.InlineKeyboardButton
		for i, q := range questions {
			if i == 10 {
				break
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					fmt.Sprintf("ID %d: %s", q.ID, truncate(q.Prompt, 30)),
					fmt.Sprintf("remove_%d", q.ID),
				)))
		}
		out := tgbotapi.NewMessage(msg.Chat.ID, "Select a quiz to remove:")
		out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
		b.send(out)
		return
	}

	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Invalid question ID. Use /list to see available quizzes and their IDs.")
		return
	}
	b.confirmRemove(ctx, msg.Chat.ID, id)
}

func (b *Bot) confirmRemove(ctx context.Context, chatID, id int64) {
	question, err := b.authoring.GetQuestion(ctx, id)
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	out := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"Are you sure you want to delete this quiz?\n\nID: %d\nQuestion: %s\nCategory: %s",
		question.ID, question.Prompt, question.Category))
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, delete it", fmt.Sprintf("confirm_remove_%d", id)),
			tgbotapi.NewInlineKeyboardButtonData("❌ No, keep it", "cancel_remove"),
		))
	b.send(out)
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("error sending message: %v", err)
	}
}

// replyError maps domain errors to plain user-facing messages. Nothing here
// is fatal to the update loop.
func (b *Bot) replyError(chatID int64, err error) {
	switch {
	case errors.Is(err, domain.ErrNoQuestionsAvailable):
		b.reply(chatID, "No questions available. Add some with the /add command!")
	case errors.Is(err, domain.ErrNoActiveSession):
		b.reply(chatID, "You have no active quiz. Use /play to start one!")
	case errors.Is(err, domain.ErrQuestionNotFound):
		b.reply(chatID, "No question found with that ID. Use /list to see available quizzes.")
	case errors.Is(err, domain.ErrInvalidQuestion):
		b.reply(chatID, "That question is not valid: it needs a prompt, at least two options, and a correct answer in range.")
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Printf("store error: %v", err)
		b.reply(chatID, "Storage is temporarily unavailable, please try again.")
	default:
		log.Printf("unexpected error: %v", err)
		b.reply(chatID, "Something went wrong, please try again.")
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
