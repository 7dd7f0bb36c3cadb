package telegram

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"quizbot/internal/domain"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type flowMode int

const (
	modeAdd flowMode = iota
	modeClone
	modeEdit
)

type flowStep int

const (
	stepPrompt flowStep = iota
	stepOptions
	stepAnswer
	stepCloneURL
)

// draftFlow is one in-progress authoring conversation for a chat.
type draftFlow struct {
	mode   flowMode
	step   flowStep
	draft  domain.Draft
	editID int64
}

func (b *Bot) startAddFlow(chatID int64) {
	b.drafts[chatID] = &draftFlow{mode: modeAdd, step: stepPrompt}
	b.reply(chatID,
		"Let's create a new quiz question.\n\n"+
			"First, send me the question text.\n"+
			"For example: 'What is the capital of France?'\n\n"+
			"Type /cancel to abort.")
}

func (b *Bot) startCloneFlow(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		b.drafts[msg.Chat.ID] = &draftFlow{mode: modeClone, step: stepCloneURL}
		b.reply(msg.Chat.ID,
			"Please send me the Telegram quiz link you want to clone.\n"+
				"For example, a link from @QuizBot or another quiz bot or channel.\n\n"+
				"Type /cancel to abort.")
		return
	}
	b.cloneFromURL(ctx, msg.Chat.ID, arg)
}

func (b *Bot) cloneFromURL(ctx context.Context, chatID int64, url string) {
	b.reply(chatID, "Analyzing the quiz link... Please wait.")

	draft, err := b.fetcher.Fetch(ctx, url)
	if err != nil {
		// Fall back to manual entry, keeping the clone category.
		b.drafts[chatID] = &draftFlow{mode: modeClone, step: stepPrompt}
		b.reply(chatID,
			"I couldn't automatically extract the quiz from that link.\n\n"+
				"Let's create it manually. Please send me the question text.")
		return
	}

	flow := &draftFlow{mode: modeClone, step: stepAnswer, draft: draft}
	b.drafts[chatID] = flow
	b.askCorrectOption(chatID, flow,
		fmt.Sprintf("I found the following quiz:\n\nQuestion: %s\n\nNow select which option is the correct answer:", draft.Prompt))
}

func (b *Bot) startEditFlow(ctx context.Context, msg *tgbotapi.Message) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		b.reply(msg.Chat.ID, "Usage: /edit <id>. Use /list to see available quizzes and their IDs.")
		return
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Invalid question ID. Use /list to see available quizzes and their IDs.")
		return
	}
	question, err := b.authoring.GetQuestion(ctx, id)
	if err != nil {
		b.replyError(msg.Chat.ID, err)
		return
	}

	b.drafts[msg.Chat.ID] = &draftFlow{mode: modeEdit, step: stepPrompt, editID: id}
	b.reply(msg.Chat.ID, fmt.Sprintf(
		"Editing question ID %d:\n\n%s\n\nSend me the new question text, or /cancel to abort.",
		id, question.Prompt))
}

// handleForwardedPoll offers to save any poll forwarded into the chat.
func (b *Bot) handleForwardedPoll(msg *tgbotapi.Message) {
	poll := msg.Poll
	options := make([]string, 0, len(poll.Options))
	for _, opt := range poll.Options {
		options = append(options, opt.Text)
	}
	if len(options) < 2 {
		b.reply(msg.Chat.ID, "That poll doesn't have enough options to save as a quiz.")
		return
	}

	flow := &draftFlow{
		mode: modeClone,
		step: stepAnswer,
		draft: domain.Draft{
			Prompt:  poll.Question,
			Options: options,
		},
	}
	b.drafts[msg.Chat.ID] = flow
	b.askCorrectOption(msg.Chat.ID, flow,
		"Nice poll! To save it as a quiz, select which option is the correct answer (or /cancel):")
}

// continueFlow advances an authoring conversation with the user's text input.
func (b *Bot) continueFlow(ctx context.Context, msg *tgbotapi.Message, flow *draftFlow) {
	text := strings.TrimSpace(msg.Text)

	switch flow.step {
	case stepCloneURL:
		b.cloneFromURL(ctx, msg.Chat.ID, text)
	case stepPrompt:
		if text == "" {
			b.reply(msg.Chat.ID, "The question text cannot be empty. Please try again.")
			return
		}
		flow.draft.Prompt = text
		flow.step = stepOptions
		b.reply(msg.Chat.ID,
			"Great! Now send me the answer options, one per line.\n"+
				"For example:\nParis\nLondon\nBerlin\nMadrid")
	case stepOptions:
		var options []string
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				options = append(options, line)
			}
		}
		if len(options) < 2 {
			b.reply(msg.Chat.ID, "You need to provide at least 2 options. Please try again.")
			return
		}
		flow.draft.Options = options
		flow.step = stepAnswer
		b.askCorrectOption(msg.Chat.ID, flow, "Now select which option is the correct answer:")
	default:
		b.reply(msg.Chat.ID, "Please pick the correct answer with the buttons above, or /cancel.")
	}
}

func (b *Bot) askCorrectOption(chatID int64, flow *draftFlow, text string) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range flow.draft.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d. %s", i+1, truncate(option, 40)),
				fmt.Sprintf("ans_%d", i),
			)))
	}
	out := tgbotapi.NewMessage(chatID, text)
	out.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	b.send(out)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Callbacks from inline mode or messages older than 48h arrive without
	// an attached message; there is no chat to answer into.
	if cb.Message == nil {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("error answering callback: %v", err)
	}
	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, "ans_"):
		b.finishFlow(ctx, chatID, cb.From, data)
	case data == "cancel_remove":
		b.editText(chatID, cb.Message.MessageID, "Quiz deletion cancelled.")
	case strings.HasPrefix(data, "confirm_remove_"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "confirm_remove_"), 10, 64)
		if err != nil {
			return
		}
		if err := b.authoring.RemoveQuestion(ctx, id); err != nil {
			b.replyError(chatID, err)
			return
		}
		b.editText(chatID, cb.Message.MessageID, fmt.Sprintf("✅ Quiz question ID %d has been deleted.", id))
	case strings.HasPrefix(data, "remove_"):
		id, err := strconv.ParseInt(strings.TrimPrefix(data, "remove_"), 10, 64)
		if err != nil {
			return
		}
		b.confirmRemove(ctx, chatID, id)
	default:
		b.reply(chatID, "Unrecognized button. Use /help to see available commands.")
	}
}

func (b *Bot) finishFlow(ctx context.Context, chatID int64, from *tgbotapi.User, data string) {
	flow, ok := b.drafts[chatID]
	if !ok || flow.step != stepAnswer {
		b.reply(chatID, "That quiz draft is no longer active. Use /add to start a new one.")
		return
	}
	answer, err := strconv.Atoi(strings.TrimPrefix(data, "ans_"))
	if err != nil || answer < 0 || answer >= len(flow.draft.Options) {
		b.reply(chatID, "Invalid option selected, please try again.")
		return
	}
	flow.draft.Answer = answer
	if from != nil {
		flow.draft.CreatedBy = from.UserName
	}

	var (
		question domain.Question
		saveErr  error
	)
	switch flow.mode {
	case modeEdit:
		question, saveErr = b.authoring.EditQuestion(ctx, flow.editID, flow.draft)
	case modeClone:
		question, saveErr = b.authoring.CloneQuestion(ctx, flow.draft)
	default:
		question, saveErr = b.authoring.AddQuestion(ctx, flow.draft)
	}
	if saveErr != nil {
		b.replyError(chatID, saveErr)
		return
	}
	delete(b.drafts, chatID)

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Quiz question saved (ID %d)!\n\nQuestion: %s\n\nOptions:\n", question.ID, question.Prompt)
	for i, opt := range question.Options {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, opt)
	}
	fmt.Fprintf(&sb, "\nCorrect answer: %s\n\nUse /play to test it out!", question.Options[question.Answer])
	b.reply(chatID, sb.String())
}

func (b *Bot) editText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := b.api.Send(edit); err != nil {
		b.reply(chatID, text)
	}
}
