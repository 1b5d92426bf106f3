package chatbot

import (
	"strings"
	"testing"
)

func TestAnswer(t *testing.T) {
	tests := []struct {
		msg  string
		want Topic
	}{
		{"납기 리스크 알려줘", TopicDeliveryRisk},
		{"납기 위험한 오더는?", TopicDeliveryRisk},
		{"납기 지연 현황", TopicUnknown},
		{"리스크 높은 공정", TopicUnknown},
		{"프레스 상태는?", TopicPress},
		{"납기와 프레스", TopicPress},
		{"프레스 납기 리스크", TopicDeliveryRisk},
		{"전체 현황 보여줘", TopicOverview},
		{"종합 리포트", TopicOverview},
		{"프레스 전체", TopicPress},
		{"hello", TopicUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			got := Answer(tt.msg)
			if got.Topic != tt.want {
				t.Fatalf("topic = %q, want %q", got.Topic, tt.want)
			}
		})
	}
}

func TestAnswer_Content(t *testing.T) {
	got := Answer("납기 리스크")
	if !strings.HasPrefix(got.Content, "📊 **납기 리스크 분석 결과**") || !strings.Contains(got.Content, "ORD-2026-0015") {
		t.Fatalf("unexpected delivery reply: %q", got.Content)
	}
	got = Answer("프레스")
	if !strings.Contains(got.Content, "862 kPa") {
		t.Fatalf("unexpected press reply: %q", got.Content)
	}
	got = Answer("종합")
	if !strings.Contains(got.Content, "이상 발생: 22건") {
		t.Fatalf("unexpected overview reply: %q", got.Content)
	}
	got = Answer("what?")
	if !strings.HasPrefix(got.Content, "죄송합니다.") {
		t.Fatalf("unexpected fallback: %q", got.Content)
	}
}

func TestAnswer_BlankGetsFallback(t *testing.T) {
	for _, msg := range []string{"", "   ", "\n\t"} {
		got := Answer(msg)
		if got.Topic != TopicUnknown || got.Content != fallbackReply {
			t.Errorf("Answer(%q) = %+v, want fallback", msg, got)
		}
	}
}
