package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppLinkCmd(t *testing.T) {
	t.Setenv("WHATSAPP_PHONE", "393331234567")
	t.Setenv("WHATSAPP_MESSAGE", "")

	var out bytes.Buffer
	cmd := whatsAppLinkCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--message", "Ciao!"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "https://wa.me/393331234567?text=Ciao!\n", out.String())
}

func TestWhatsAppLinkCmd_NoPhone(t *testing.T) {
	t.Setenv("WHATSAPP_PHONE", "")

	cmd := whatsAppLinkCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	assert.Error(t, cmd.Execute())
}
