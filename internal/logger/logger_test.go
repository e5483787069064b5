package logger

import "testing"

func TestDeferLogBuffersUntilDone(t *testing.T) {
	log := NewDeferLog()

	if log.HasErrors() {
		t.Fatalf("expected no errors before any message")
	}

	log.AddMsg(Msg{Kind: Warning, Text: "careful"})
	if log.HasErrors() {
		t.Fatalf("a warning must not flip HasErrors")
	}

	log.AddMsg(Msg{Kind: Error, Text: "boom", ClassName: "Foo"})
	if !log.HasErrors() {
		t.Fatalf("expected HasErrors after an Error message")
	}

	msgs := log.Done()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
}

func TestLiveLogForwardsImmediately(t *testing.T) {
	var seen []Msg
	log := NewLog(func(m Msg) { seen = append(seen, m) })

	log.AddMsg(Msg{Kind: Error, Text: "x"})
	if len(seen) != 1 {
		t.Fatalf("expected sink to receive the message synchronously")
	}
	if !log.HasErrors() {
		t.Fatalf("expected HasErrors to reflect the forwarded message")
	}
	if len(log.Done()) != 1 {
		t.Fatalf("expected Done() to also report the message")
	}
}

func TestMsgSortIsStableByProvenance(t *testing.T) {
	log := NewDeferLog()
	log.AddMsg(Msg{Kind: Error, ClassName: "B", Text: "1"})
	log.AddMsg(Msg{Kind: Error, ClassName: "A", MethodName: "m2", Text: "2"})
	log.AddMsg(Msg{Kind: Error, ClassName: "A", MethodName: "m1", Text: "3"})

	msgs := log.Done()
	if msgs[0].ClassName != "A" || msgs[0].MethodName != "m1" {
		t.Fatalf("expected A.m1 first, got %+v", msgs[0])
	}
	if msgs[1].ClassName != "A" || msgs[1].MethodName != "m2" {
		t.Fatalf("expected A.m2 second, got %+v", msgs[1])
	}
	if msgs[2].ClassName != "B" {
		t.Fatalf("expected B last, got %+v", msgs[2])
	}
}
