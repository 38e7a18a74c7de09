package model

import "testing"

func TestVideoRecord_PlayableCount(t *testing.T) {
	tests := []struct {
		name   string
		record VideoRecord
		want   int
	}{
		{
			name: "multi episode counts url-bearing episodes",
			record: VideoRecord{
				VideoURL: "https://cdn/v/1.mp4",
				Episodes: []Episode{
					{Num: 1, VideoURL: "https://cdn/v/1.mp4"},
					{Num: 2},
					{Num: 3, VideoURL: "https://cdn/v/3.mp4"},
				},
			},
			want: 2,
		},
		{
			name:   "single primary url",
			record: VideoRecord{VideoURL: "https://cdn/v.mp4"},
			want:   1,
		},
		{
			name: "single episode with primary url counts once",
			record: VideoRecord{
				VideoURL: "https://cdn/v.mp4",
				Episodes: []Episode{{Num: 1, VideoURL: "https://cdn/v.mp4"}},
			},
			want: 1,
		},
		{
			name:   "nothing playable",
			record: VideoRecord{},
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.record.PlayableCount(); got != tt.want {
				t.Errorf("PlayableCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	records := []*VideoRecord{
		{Title: "a", VideoURL: "https://cdn/a.mp4"},
		{Title: "b", Episodes: []Episode{
			{Num: 1, VideoURL: "https://cdn/b1.mp4"},
			{Num: 2, VideoURL: "https://cdn/b2.mp4"},
		}, VideoURL: "https://cdn/b1.mp4"},
		{Title: "c"},
		{FailureReason: "timeout"},
	}

	s := Summarize(records)

	if s.Collections != 3 {
		t.Errorf("Collections = %d, want 3", s.Collections)
	}
	if s.Videos != 3 {
		t.Errorf("Videos = %d, want 3", s.Videos)
	}
	if s.NoVideo != 1 {
		t.Errorf("NoVideo = %d, want 1", s.NoVideo)
	}
	if s.Errors != 1 {
		t.Errorf("Errors = %d, want 1", s.Errors)
	}
}
