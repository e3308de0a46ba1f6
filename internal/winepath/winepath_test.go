package winepath

import "testing"

func TestToWine(t *testing.T) {
	tests := []struct {
		name string
		path string
		home string
		want string
	}{
		{
			name: "under home",
			path: "/home/user/.local/share/Steam/steamapps/common/FINAL FANTASY XIV Online/game",
			home: "/home/user",
			want: `X:\.local\share\Steam\steamapps\common\FINAL FANTASY XIV Online\game`,
		},
		{
			name: "outside home falls back to full path",
			path: "/mnt/games/ffxiv/game",
			home: "/home/user",
			want: `X:\mnt\games\ffxiv\game`,
		},
		{
			name: "empty home",
			path: "/srv/ffxiv",
			home: "",
			want: `X:\srv\ffxiv`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToWine(tt.path, tt.home); got != tt.want {
				t.Errorf("ToWine(%q, %q) = %q, want %q", tt.path, tt.home, got, tt.want)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	got := Join(`X:\games\ffxiv`, "reshade-shaders", "Shaders", "**")
	want := `X:\games\ffxiv\reshade-shaders\Shaders\**`
	if got != want {
		t.Errorf("Join = %q, want %q", got, want)
	}
}
