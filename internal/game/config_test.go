package game

import "testing"

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: Config{Store: StoreMemory},
		},
		{
			name: "full",
			env: map[string]string{
				"LABYRINTH_SEED":      "42",
				"LABYRINTH_WIDTH":     "30",
				"LABYRINTH_HEIGHT":    "20",
				"LABYRINTH_ENDLESS":   "true",
				"LABYRINTH_LEVEL_DIR": "levels",
				"LABYRINTH_STORE":     "sqlite",
			},
			want: Config{Seed: 42, Width: 30, Height: 20, Endless: true, LevelDir: "levels",
				Store: StoreSQLite, StorePath: "save/labyrinth.db"},
		},
		{
			name: "json default path",
			env:  map[string]string{"LABYRINTH_STORE": "json"},
			want: Config{Store: StoreJSON, StorePath: "save"},
		},
		{name: "bad seed", env: map[string]string{"LABYRINTH_SEED": "abc"}, wantErr: true},
		{name: "bad endless", env: map[string]string{"LABYRINTH_ENDLESS": "maybe"}, wantErr: true},
		{name: "unknown store", env: map[string]string{"LABYRINTH_STORE": "redis"}, wantErr: true},
		{name: "too small", env: map[string]string{"LABYRINTH_WIDTH": "2"}, wantErr: true},
	}

	keys := []string{
		"LABYRINTH_SEED", "LABYRINTH_WIDTH", "LABYRINTH_HEIGHT", "LABYRINTH_ENDLESS",
		"LABYRINTH_LEVEL_DIR", "LABYRINTH_STORE", "LABYRINTH_STORE_PATH", "LABYRINTH_DATA_DIR",
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range keys {
				t.Setenv(k, tt.env[k])
			}

			got, err := ConfigFromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ConfigFromEnv() = %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ConfigFromEnv: %v", err)
			}
			if got != tt.want {
				t.Errorf("ConfigFromEnv() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
