package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/avoronov/studbot/internal/completion"
	"github.com/avoronov/studbot/internal/config"
	"github.com/avoronov/studbot/internal/database"
	"github.com/avoronov/studbot/internal/document"
)

type fakeCompleter struct {
	prompts []completion.Request
	answer  string
	err     error
}

func (f *fakeCompleter) Complete(ctx context.Context, req completion.Request) (string, error) {
	f.prompts = append(f.prompts, req)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type sentText struct {
	chatID int64
	text   string
}

type sentFile struct {
	chatID  int64
	file    *document.File
	caption string
}

type fakeReplier struct {
	texts []sentText
	files []sentFile
}

func (f *fakeReplier) SendText(ctx context.Context, chatID int64, replyTo int, text string) error {
	f.texts = append(f.texts, sentText{chatID: chatID, text: text})
	return nil
}

func (f *fakeReplier) SendFile(ctx context.Context, chatID int64, replyTo int, file *document.File, caption string) error {
	f.files = append(f.files, sentFile{chatID: chatID, file: file, caption: caption})
	return nil
}

type fakeRecorder struct {
	records []*database.UsageRecord
}

func (f *fakeRecorder) SaveUsage(ctx context.Context, rec *database.UsageRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Completion: config.CompletionConfig{SystemPrompt: "Ты полезный AI-ассистент для студентов."},
		Bot: config.BotConfig{
			MessageLimit: 4000,
			Messages:     config.DefaultBotMessages,
		},
	}
}

func newTestPipeline(completer *fakeCompleter) (*Pipeline, *fakeReplier, *fakeRecorder) {
	replier := &fakeReplier{}
	recorder := &fakeRecorder{}
	p := New(completer, replier, recorder, testConfig(), slog.New(slog.DiscardHandler))
	return p, replier, recorder
}

func TestHandlePlainAnswer(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{answer: "Москва основана в 1147 году."}
	p, replier, recorder := newTestPipeline(completer)

	p.Handle(context.Background(), Inbound{ChatID: 7, MessageID: 1, Text: "когда основана Москва?"})

	if len(completer.prompts) != 1 {
		t.Fatalf("completion calls = %d, want exactly 1", len(completer.prompts))
	}
	if completer.prompts[0].UserPrompt != "когда основана Москва?" {
		t.Errorf("user prompt = %q, want the message text", completer.prompts[0].UserPrompt)
	}
	if completer.prompts[0].SystemPrompt == "" {
		t.Error("system prompt not set")
	}

	if len(replier.texts) != 1 || replier.texts[0].text != completer.answer {
		t.Errorf("sent texts = %+v, want one inline answer", replier.texts)
	}
	if len(replier.files) != 0 {
		t.Errorf("sent files = %d, want none", len(replier.files))
	}

	if len(recorder.records) != 1 || !recorder.records[0].Success || recorder.records[0].Intent != "answer" {
		t.Errorf("usage records = %+v, want one successful answer row", recorder.records)
	}
}

func TestHandleDocumentRequest(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{answer: "Введение.\n\nОсновная часть.\n\nЗаключение."}
	p, replier, _ := newTestPipeline(completer)

	p.Handle(context.Background(), Inbound{ChatID: 7, MessageID: 1, Text: "реферат: Экология"})

	if len(completer.prompts) != 1 {
		t.Fatalf("completion calls = %d, want exactly 1", len(completer.prompts))
	}
	if !strings.Contains(completer.prompts[0].UserPrompt, "Экология") {
		t.Errorf("prompt %q does not mention the topic", completer.prompts[0].UserPrompt)
	}

	if len(replier.texts) != 0 {
		t.Errorf("sent texts = %+v, want none for a document request", replier.texts)
	}
	if len(replier.files) != 1 {
		t.Fatalf("sent files = %d, want 1", len(replier.files))
	}
	if got := replier.files[0].file; got.Name != "Экология.docx" || got.MIME != document.MIMEWord {
		t.Errorf("file = %s (%s), want Экология.docx", got.Name, got.MIME)
	}
	if replier.files[0].caption != "Экология" {
		t.Errorf("caption = %q, want the topic", replier.files[0].caption)
	}
}

func TestHandleSlidesRequest(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{answer: "Введение: начало\nВыводы: конец"}
	p, replier, _ := newTestPipeline(completer)

	p.Handle(context.Background(), Inbound{ChatID: 7, MessageID: 1, Text: "презентация: Вулканы"})

	if len(replier.files) != 1 {
		t.Fatalf("sent files = %d, want 1", len(replier.files))
	}
	if got := replier.files[0].file; got.Name != "Вулканы.pptx" || got.MIME != document.MIMESlide {
		t.Errorf("file = %s (%s), want Вулканы.pptx", got.Name, got.MIME)
	}
}

func TestHandleCompletionFailure(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{err: &completion.Failure{Status: 500, Reason: "provider returned non-2xx status"}}
	p, replier, recorder := newTestPipeline(completer)

	p.Handle(context.Background(), Inbound{ChatID: 7, MessageID: 1, Text: "реферат: Экология"})

	if len(replier.texts) != 1 || replier.texts[0].text != config.DefaultBotMessages.Apology {
		t.Errorf("sent texts = %+v, want one apology", replier.texts)
	}
	if len(replier.files) != 0 {
		t.Errorf("sent files = %d, want none after failure", len(replier.files))
	}
	if len(recorder.records) != 1 || recorder.records[0].Success {
		t.Errorf("usage records = %+v, want one failed row", recorder.records)
	}
}

func TestHandleOversizedAnswer(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("ы", 4001)
	completer := &fakeCompleter{answer: long}
	p, replier, _ := newTestPipeline(completer)

	p.Handle(context.Background(), Inbound{ChatID: 7, MessageID: 1, Text: "расскажи всё"})

	if len(replier.texts) != 0 {
		t.Errorf("sent texts = %d, want none for oversized answer", len(replier.texts))
	}
	if len(replier.files) != 1 {
		t.Fatalf("sent files = %d, want 1", len(replier.files))
	}
	if got := string(replier.files[0].file.Data); got != long {
		t.Errorf("attachment length = %d runes, answer must not be truncated", len([]rune(got)))
	}
}

func TestHandleAnswerAtLimitStaysInline(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{answer: strings.Repeat("ы", 4000)}
	p, replier, _ := newTestPipeline(completer)

	p.Handle(context.Background(), Inbound{ChatID: 7, MessageID: 1, Text: "вопрос"})

	if len(replier.texts) != 1 || len(replier.files) != 0 {
		t.Errorf("texts = %d files = %d, answer at the limit should stay inline", len(replier.texts), len(replier.files))
	}
}

func TestHandleEmptyTopicStillCompletes(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{answer: "Введение.\n\nЗаключение."}
	p, replier, recorder := newTestPipeline(completer)

	p.Handle(context.Background(), Inbound{ChatID: 7, MessageID: 1, Text: "реферат:"})

	if len(completer.prompts) != 1 {
		t.Fatalf("completion calls = %d, want exactly 1 even with an empty topic", len(completer.prompts))
	}
	if !strings.Contains(completer.prompts[0].UserPrompt, "«»") {
		t.Errorf("prompt = %q, want the empty topic forwarded unchanged", completer.prompts[0].UserPrompt)
	}
	if len(replier.files) != 1 {
		t.Fatalf("sent files = %d, want the document delivered anyway", len(replier.files))
	}
	if len(recorder.records) != 1 || !recorder.records[0].Success {
		t.Errorf("usage records = %+v, want one successful row", recorder.records)
	}
}

type failingFileReplier struct{ fakeReplier }

func (f *failingFileReplier) SendFile(ctx context.Context, chatID int64, replyTo int, file *document.File, caption string) error {
	return errors.New("document is too big")
}

func TestHandleDocumentSendFailureRecordedAsFailed(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{answer: "Введение.\n\nЗаключение."}
	recorder := &fakeRecorder{}
	p := New(completer, &failingFileReplier{}, recorder, testConfig(), slog.New(slog.DiscardHandler))

	p.Handle(context.Background(), Inbound{ChatID: 7, MessageID: 1, Text: "реферат: Экология"})

	if len(recorder.records) != 1 || recorder.records[0].Success {
		t.Errorf("usage records = %+v, want one failed row after a send failure", recorder.records)
	}
}

func TestHandleMessagesAreIndependent(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{answer: "ответ"}
	p, replier, _ := newTestPipeline(completer)

	p.Handle(context.Background(), Inbound{ChatID: 1, MessageID: 1, Text: "первый вопрос"})
	p.Handle(context.Background(), Inbound{ChatID: 2, MessageID: 2, Text: "второй вопрос"})

	if len(completer.prompts) != 2 {
		t.Fatalf("completion calls = %d, want one per message", len(completer.prompts))
	}
	if completer.prompts[1].UserPrompt != "второй вопрос" {
		t.Errorf("second prompt = %q, must not carry state from the first", completer.prompts[1].UserPrompt)
	}
	if len(replier.texts) != 2 {
		t.Errorf("sent texts = %d, want 2", len(replier.texts))
	}
}

type panickyReplier struct{ fakeReplier }

func (p *panickyReplier) SendText(ctx context.Context, chatID int64, replyTo int, text string) error {
	panic("transport blew up")
}

func TestHandleRecoversPanic(t *testing.T) {
	t.Parallel()

	completer := &fakeCompleter{answer: "ответ"}
	p := New(completer, &panickyReplier{}, nil, testConfig(), slog.New(slog.DiscardHandler))

	// Must not propagate to the caller.
	p.Handle(context.Background(), Inbound{ChatID: 7, MessageID: 1, Text: "вопрос"})
}
