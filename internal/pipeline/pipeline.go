// Package pipeline drives one message through classify, complete, render,
// and deliver. Every message is handled independently; the pipeline keeps
// no state between calls.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/avoronov/studbot/internal/completion"
	"github.com/avoronov/studbot/internal/config"
	"github.com/avoronov/studbot/internal/database"
	"github.com/avoronov/studbot/internal/document"
	"github.com/avoronov/studbot/internal/intent"
)

const usageSaveTimeout = 5 * time.Second

// Inbound is one user message as seen by the pipeline, already stripped
// of transport details.
type Inbound struct {
	ChatID    int64
	MessageID int
	Text      string
}

// Replier delivers the pipeline's output back to the chat. The Telegram
// adapter implements it; tests substitute a recording fake.
type Replier interface {
	SendText(ctx context.Context, chatID int64, replyTo int, text string) error
	SendFile(ctx context.Context, chatID int64, replyTo int, file *document.File, caption string) error
}

// UsageRecorder persists one audit row per handled message. The pipeline
// only writes; reads happen elsewhere.
type UsageRecorder interface {
	SaveUsage(ctx context.Context, rec *database.UsageRecord) error
}

// Pipeline wires the classifier, the completion client, the document
// builders, and the reply adapter together.
type Pipeline struct {
	completer completion.Client
	replier   Replier
	recorder  UsageRecorder
	log       *slog.Logger

	systemPrompt string
	messageLimit int
	messages     config.BotMessages
}

// New creates a Pipeline. recorder may be nil when no usage log is wired.
func New(completer completion.Client, replier Replier, recorder UsageRecorder, cfg *config.Config, log *slog.Logger) *Pipeline {
	return &Pipeline{
		completer:    completer,
		replier:      replier,
		recorder:     recorder,
		log:          log.With("component", "pipeline"),
		systemPrompt: cfg.Completion.SystemPrompt,
		messageLimit: cfg.Bot.MessageLimit,
		messages:     cfg.Bot.Messages,
	}
}

// Handle processes one message end to end. It is total: panics are
// recovered and logged, and no error escapes to the transport.
func (p *Pipeline) Handle(ctx context.Context, in Inbound) {
	defer func() {
		if r := recover(); r != nil {
			p.log.ErrorContext(ctx, "recovered panic while handling message", "panic", r, "chat_id", in.ChatID)
		}
	}()

	startTime := time.Now()
	kind, topic := intent.Classify(in.Text)
	log := p.log.With("chat_id", in.ChatID, "intent", kind.String())

	// An empty topic after a marker is forwarded as-is; classification
	// never blocks a message from reaching the provider.
	answer, err := p.completer.Complete(ctx, completion.Request{
		SystemPrompt: p.systemPrompt,
		UserPrompt:   buildPrompt(kind, topic),
	})
	if err != nil {
		var failure *completion.Failure
		if errors.As(err, &failure) {
			log.ErrorContext(ctx, "Completion rejected", "status", failure.Status, "reason", failure.Reason, "body", failure.Body)
		} else {
			log.ErrorContext(ctx, "Completion failed", "error", err)
		}
		p.sendText(ctx, in, p.messages.Apology)
		p.recordUsage(ctx, in, kind, false, startTime)
		return
	}

	var deliverErr error
	switch kind {
	case intent.DocumentParagraph:
		deliverErr = p.deliverDocument(ctx, in, log, document.BuildReport, topic, answer)
	case intent.DocumentSlides:
		deliverErr = p.deliverDocument(ctx, in, log, document.BuildSlides, topic, answer)
	default:
		deliverErr = p.deliverAnswer(ctx, in, log, answer)
	}

	p.recordUsage(ctx, in, kind, deliverErr == nil, startTime)
	log.InfoContext(ctx, "Message handled", "duration", time.Since(startTime))
}

// deliverAnswer sends the text inline, or as a .txt attachment when it
// exceeds the rune limit. Oversized answers are never truncated.
func (p *Pipeline) deliverAnswer(ctx context.Context, in Inbound, log *slog.Logger, answer string) error {
	if utf8.RuneCountInString(answer) <= p.messageLimit {
		if err := p.replier.SendText(ctx, in.ChatID, in.MessageID, answer); err != nil {
			log.ErrorContext(ctx, "Failed to send answer", "error", err)
			return err
		}
		return nil
	}

	log.InfoContext(ctx, "Answer exceeds message limit, sending as file", "runes", utf8.RuneCountInString(answer))
	file := document.TextAttachment("otvet.txt", answer)
	if err := p.replier.SendFile(ctx, in.ChatID, in.MessageID, file, ""); err != nil {
		log.ErrorContext(ctx, "Failed to send text attachment", "error", err)
		return err
	}
	return nil
}

func (p *Pipeline) deliverDocument(ctx context.Context, in Inbound, log *slog.Logger, build func(title, body string) (*document.File, error), topic, answer string) error {
	file, err := build(topic, answer)
	if err != nil {
		log.ErrorContext(ctx, "Failed to build document", "error", err)
		p.sendText(ctx, in, p.messages.Apology)
		return err
	}

	if err := p.replier.SendFile(ctx, in.ChatID, in.MessageID, file, topic); err != nil {
		log.ErrorContext(ctx, "Failed to send document", "error", err, "file", file.Name)
		return err
	}
	return nil
}

func (p *Pipeline) sendText(ctx context.Context, in Inbound, text string) {
	if err := p.replier.SendText(ctx, in.ChatID, in.MessageID, text); err != nil {
		p.log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", in.ChatID)
	}
}

// recordUsage writes one audit row. Failures are logged and never affect
// the reply; the write keeps going even if the update context is gone.
func (p *Pipeline) recordUsage(ctx context.Context, in Inbound, kind intent.Intent, success bool, startTime time.Time) {
	if p.recorder == nil {
		return
	}

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), usageSaveTimeout)
	defer cancel()

	rec := &database.UsageRecord{
		ChatID:     in.ChatID,
		Intent:     kind.String(),
		Success:    success,
		DurationMS: time.Since(startTime).Milliseconds(),
	}
	if err := p.recorder.SaveUsage(saveCtx, rec); err != nil {
		p.log.ErrorContext(ctx, "Failed to save usage record", "error", err, "chat_id", in.ChatID)
	}
}

func buildPrompt(kind intent.Intent, topic string) string {
	switch kind {
	case intent.DocumentParagraph:
		return fmt.Sprintf("Напиши реферат на тему «%s». Структурируй текст: введение, основная часть, заключение. Раздели текст на абзацы пустыми строками.", topic)
	case intent.DocumentSlides:
		return fmt.Sprintf("Составь презентацию на тему «%s». Выведи 6-8 строк, каждая строка — один слайд в формате «Заголовок: содержание слайда». Без нумерации.", topic)
	default:
		return topic
	}
}
