package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommandPlainTokens(t *testing.T) {
	assert.Equal(t, CmdConfirmOrder, ParseCommand("CONFIRM_ORDER").Kind)
	assert.Equal(t, CmdStartOrder, ParseCommand(" START_ORDER ").Kind)
	assert.Equal(t, CmdPackAddMenu, ParseCommand("ADD_PACK").Kind)
	assert.Equal(t, CmdPackRemoveMenu, ParseCommand("REMOVE_PACK").Kind)
}

func TestParseCommandPrefixPrecedence(t *testing.T) {
	cmd := ParseCommand("CAT_SET_Drinks")
	assert.Equal(t, CmdCategorySet, cmd.Kind)
	assert.Equal(t, "Drinks", cmd.Arg)

	cmd = ParseCommand("CAT_PAGE_2")
	assert.Equal(t, CmdCategoryPage, cmd.Kind)
	assert.Equal(t, 2, cmd.Page)

	cmd = ParseCommand("CAT_abc123")
	assert.Equal(t, CmdCategory, cmd.Kind)
	assert.Equal(t, "abc123", cmd.Arg)
}

func TestParseCommandPackPrefixes(t *testing.T) {
	cmd := ParseCommand("ADD_PACK_pack2")
	assert.Equal(t, CmdAddPack, cmd.Kind)
	assert.Equal(t, "pack2", cmd.Arg)

	cmd = ParseCommand("REMOVE_PACK_pack1")
	assert.Equal(t, CmdRemovePack, cmd.Kind)
	assert.Equal(t, "pack1", cmd.Arg)
}

func TestParseCommandBadPageFallsBackToText(t *testing.T) {
	cmd := ParseCommand("CAT_PAGE_next")
	assert.Equal(t, CmdText, cmd.Kind)
	assert.Equal(t, "CAT_PAGE_next", cmd.Raw)
	assert.Zero(t, cmd.Page)
}

func TestParseCommandNone(t *testing.T) {
	assert.Equal(t, CmdNone, ParseCommand("none").Kind)
	assert.Equal(t, CmdNone, ParseCommand("NoNe").Kind)
}

func TestParseCommandNumbers(t *testing.T) {
	cmd := ParseCommand("3")
	assert.Equal(t, CmdNumber, cmd.Kind)
	assert.Equal(t, 3, cmd.Number)

	cmd = ParseCommand("0")
	assert.Equal(t, CmdNumber, cmd.Kind)
	assert.Equal(t, 0, cmd.Number)
}

func TestParseCommandFreeText(t *testing.T) {
	cmd := ParseCommand("  jollof rice  ")
	assert.Equal(t, CmdText, cmd.Kind)
	assert.Equal(t, "jollof rice", cmd.Raw)

	assert.Equal(t, CmdText, ParseCommand("").Kind)
	assert.Equal(t, CmdText, ParseCommand("confirm_order").Kind, "tokens are case-sensitive")
}
