// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package mail

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMTPSender_Deliver(t *testing.T) {
	sender := NewSMTPSender("smtp.example.com:587", "noreply@yamdb.local", "user", "secret")

	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotMsg  string
	)
	sender.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, string(msg)
		return nil
	}

	err := sender.Deliver(context.Background(), Message{
		To:      "alice@example.com",
		Subject: "Yamdb registration success.",
		Body:    "Hello alice\nCode: abc",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "noreply@yamdb.local", gotFrom)
	assert.Equal(t, []string{"alice@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Yamdb registration success.\r\n")
	assert.Contains(t, gotMsg, "Hello alice\r\nCode: abc")
	assert.NotNil(t, sender.auth)
}

func TestSMTPSender_RejectsHeaderInjection(t *testing.T) {
	sender := NewSMTPSender("localhost:25", "noreply@yamdb.local", "", "")
	sender.send = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("must not send")
		return nil
	}

	err := sender.Deliver(context.Background(), Message{To: "a@example.com\r\nBcc: x@example.com", Subject: "s"})
	assert.Error(t, err)
	assert.Nil(t, sender.auth)
}
