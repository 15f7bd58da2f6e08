package intent

import "testing"

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantKind  Intent
		wantTopic string
	}{
		{
			name:      "report marker with colon",
			input:     "реферат: Экология",
			wantKind:  DocumentParagraph,
			wantTopic: "Экология",
		},
		{
			name:      "report marker uppercase",
			input:     "РЕФЕРАТ: Вулканы",
			wantKind:  DocumentParagraph,
			wantTopic: "Вулканы",
		},
		{
			name:      "report marker with space separator",
			input:     "доклад история Рима",
			wantKind:  DocumentParagraph,
			wantTopic: "история Рима",
		},
		{
			name:      "english report marker",
			input:     "essay: the fall of Rome",
			wantKind:  DocumentParagraph,
			wantTopic: "the fall of Rome",
		},
		{
			name:      "slides marker",
			input:     "презентация: Солнечная система",
			wantKind:  DocumentSlides,
			wantTopic: "Солнечная система",
		},
		{
			name:      "slides marker english",
			input:     "slides: photosynthesis",
			wantKind:  DocumentSlides,
			wantTopic: "photosynthesis",
		},
		{
			name:      "plain question",
			input:     "когда была основана Москва?",
			wantKind:  PlainAnswer,
			wantTopic: "когда была основана Москва?",
		},
		{
			name:      "marker in the middle is not an intent",
			input:     "мне нужен реферат: да или нет?",
			wantKind:  PlainAnswer,
			wantTopic: "мне нужен реферат: да или нет?",
		},
		{
			name:      "marker as word prefix does not match",
			input:     "рефераты это скучно",
			wantKind:  PlainAnswer,
			wantTopic: "рефераты это скучно",
		},
		{
			name:      "bare marker without separator stays plain",
			input:     "реферат",
			wantKind:  PlainAnswer,
			wantTopic: "реферат",
		},
		{
			name:      "empty topic after marker passes through",
			input:     "реферат:",
			wantKind:  DocumentParagraph,
			wantTopic: "",
		},
		{
			name:      "report wins over slides when both could match",
			input:     "реферат: презентация как жанр",
			wantKind:  DocumentParagraph,
			wantTopic: "презентация как жанр",
		},
		{
			name:      "empty input",
			input:     "",
			wantKind:  PlainAnswer,
			wantTopic: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			kind, topic := Classify(tc.input)
			if kind != tc.wantKind {
				t.Errorf("Classify(%q) kind = %v, want %v", tc.input, kind, tc.wantKind)
			}
			if topic != tc.wantTopic {
				t.Errorf("Classify(%q) topic = %q, want %q", tc.input, topic, tc.wantTopic)
			}
		})
	}
}
