package request

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOptionalDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    *time.Time
		wantErr bool
	}{
		{name: "empty", in: "", want: nil},
		{name: "valid", in: "2030-05-01", want: func() *time.Time { d := time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC); return &d }()},
		{name: "day out of range", in: "2030-02-30", wantErr: true},
		{name: "wrong layout", in: "01-05-2030", wantErr: true},
		{name: "timestamp", in: "2030-05-01T10:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOptionalDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got))
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
