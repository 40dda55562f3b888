package message

import "testing"

func TestMessageText(t *testing.T) {
	m := Message{
		Role: RoleAssistant,
		Content: []ContentBlock{
			TextBlock("hello "),
			{Type: BlockToolUse, ToolUse: &ToolUse{ID: "t1", Name: "search"}},
			TextBlock("world"),
		},
	}
	if got := m.Text(); got != "hello world" {
		t.Fatalf("Text should concatenate text blocks only, got %q", got)
	}
}

func TestHasToolUse(t *testing.T) {
	if NewTextMessage(RoleAssistant, "plain").HasToolUse() {
		t.Fatal("text-only message reports no tool use")
	}
	m := Message{Role: RoleAssistant, Content: []ContentBlock{
		{Type: BlockToolUse, ToolUse: &ToolUse{ID: "t1", Name: "search"}},
	}}
	if !m.HasToolUse() {
		t.Fatal("expected tool use to be detected")
	}
}

func TestUsageAdd(t *testing.T) {
	var u Usage
	u.Add(Usage{InputTokens: 10, OutputTokens: 3})
	u.Add(Usage{InputTokens: 7, OutputTokens: 2})
	if u.InputTokens != 17 || u.OutputTokens != 5 {
		t.Fatalf("unexpected totals: %+v", u)
	}
}

func TestTranscriptAppendOrder(t *testing.T) {
	var tr Transcript
	tr.Append(NewTextMessage(RoleUser, "first"))
	tr.Append(NewTextMessage(RoleAssistant, "second"))

	msgs := tr.Messages()
	if len(msgs) != 2 || tr.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Text() != "first" || msgs[1].Text() != "second" {
		t.Fatal("messages out of order")
	}
}

func TestTranscriptMessagesIsACopy(t *testing.T) {
	var tr Transcript
	tr.Append(NewTextMessage(RoleUser, "original"))

	msgs := tr.Messages()
	msgs[0] = NewTextMessage(RoleUser, "mutated")

	if tr.Messages()[0].Text() != "original" {
		t.Fatal("callers must not be able to mutate the transcript")
	}
}

func TestTranscriptBlocks(t *testing.T) {
	var tr Transcript
	if tr.Blocks() != 0 {
		t.Fatal("empty transcript has no blocks")
	}
	tr.Append(NewTextMessage(RoleUser, "one block"))
	tr.Append(Message{Role: RoleAssistant, Content: []ContentBlock{
		TextBlock("a"),
		TextBlock("b"),
	}})
	if got := tr.Blocks(); got != 3 {
		t.Fatalf("expected 3 blocks, got %d", got)
	}
}
