package retroarch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name string
		line string
		want StatusReply
	}{
		{
			name: "playing with content",
			line: "STATUS PLAYING,/mnt/SDCARD/Roms/GBA/zelda.gba",
			want: StatusReply{State: StatePlaying, ContentPath: "/mnt/SDCARD/Roms/GBA/zelda.gba"},
		},
		{
			name: "paused with content",
			line: "STATUS PAUSED,/roms/mario.sfc",
			want: StatusReply{State: StatePaused, ContentPath: "/roms/mario.sfc"},
		},
		{
			name: "contentless has no path",
			line: "STATUS CONTENTLESS",
			want: StatusReply{State: StateContentless},
		},
		{
			name: "contentless with stray comma still has no path",
			line: "STATUS CONTENTLESS,",
			want: StatusReply{State: StateContentless},
		},
		{
			name: "extra whitespace",
			line: "  STATUS   PLAYING,/roms/metroid.nes  ",
			want: StatusReply{State: StatePlaying, ContentPath: "/roms/metroid.nes"},
		},
		{
			name: "content path containing spaces",
			line: "STATUS PAUSED,/roms/Jet Set Radio.chd",
			want: StatusReply{State: StatePaused, ContentPath: "/roms/Jet Set Radio.chd"},
		},
		{
			name: "missing token",
			line: "STATUS",
			want: StatusReply{State: StateUnknown},
		},
		{
			name: "unknown token",
			line: "STATUS REWINDING,/roms/sonic.md",
			want: StatusReply{State: StateUnknown},
		},
		{
			name: "wrong tag",
			line: "GET_STATUS PLAYING,/roms/sonic.md",
			want: StatusReply{State: StateUnknown},
		},
		{
			name: "empty line",
			line: "",
			want: StatusReply{State: StateUnknown},
		},
		{
			name: "garbage",
			line: "\x00\xff not a reply",
			want: StatusReply{State: StateUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseStatus(tt.line))
		})
	}
}

func TestCommandText(t *testing.T) {
	assert.Equal(t, "PAUSE", Pause().String())
	assert.Equal(t, "UNPAUSE", Unpause().String())
	assert.Equal(t, "QUIT", Quit().String())
	assert.Equal(t, "SAVE_STATE_SLOT -1", SaveStateSlot(AutoSlot).String())
	assert.Equal(t, "LOAD_STATE_SLOT 3", LoadStateSlot(3).String())
	assert.False(t, Pause().ExpectsReply())
	assert.True(t, GetStatus().ExpectsReply())
	assert.True(t, GetStateSlot().ExpectsReply())
}
