package types

import "testing"

func TestMessage_MethodReturn(t *testing.T) {
	call := NewMethodCall("server", "/svc", "com.example.x", "Ping", NewVariant("hi"))
	call.Sender = "client"

	if call.Serial == "" {
		t.Fatal("Serial is empty")
	}

	reply := call.MethodReturn(NewVariant("pong"))
	if reply.Type != MessageMethodReturn {
		t.Errorf("Type = %v", reply.Type)
	}
	if reply.ReplySerial != call.Serial {
		t.Errorf("ReplySerial = %q, want %q", reply.ReplySerial, call.Serial)
	}
	if reply.Serial == call.Serial {
		t.Error("reply reuses call serial")
	}
	// 收发方对调
	if reply.Sender != "server" || reply.Destination != "client" {
		t.Errorf("Sender/Destination = %q/%q", reply.Sender, reply.Destination)
	}
}

func TestMessage_ErrorReply(t *testing.T) {
	call := NewMethodCall("server", "/svc", "com.example.x", "Ping")

	reply := call.ErrorReply("org.freedesktop.DBus.Error.Failed", "boom")
	if reply.Type != MessageError {
		t.Errorf("Type = %v", reply.Type)
	}
	if reply.ErrorName != "org.freedesktop.DBus.Error.Failed" {
		t.Errorf("ErrorName = %q", reply.ErrorName)
	}
	desc, ok := reply.StringArg(0)
	if !ok || desc != "boom" {
		t.Errorf("StringArg(0) = %q, %v", desc, ok)
	}
}

func TestMessage_Args(t *testing.T) {
	m := NewMethodCall("d", "/p", "i", "m").
		Append(NewVariant("first"), NewVariant(int32(2)))

	if s, ok := m.StringArg(0); !ok || s != "first" {
		t.Errorf("StringArg(0) = %q, %v", s, ok)
	}
	if _, ok := m.StringArg(1); ok {
		t.Error("StringArg(1) on int32 should fail")
	}
	if _, ok := m.Arg(5); ok {
		t.Error("Arg(5) out of range should fail")
	}
	if _, ok := m.Arg(-1); ok {
		t.Error("Arg(-1) should fail")
	}
}

func TestEventFromMessage(t *testing.T) {
	tests := []struct {
		msg  *Message
		want EventKind
	}{
		{NewMethodCall("d", "/p", "i", "m"), EventMethodCall},
		{NewSignal("/p", "i", "m"), EventSignal},
		{nil, EventInvalid},
	}

	for _, tt := range tests {
		if got := EventFromMessage(tt.msg); got.Kind != tt.want {
			t.Errorf("EventFromMessage kind = %v, want %v", got.Kind, tt.want)
		}
	}
}
