package assetstore

import (
	"testing"
)

var testNS = Namespace{
	Bucket:          "recvault",
	RecordingPrefix: "recvault/recordings",
	ThumbnailPrefix: "recvault/thumbnails",
}

func TestRefFromURL(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		kind    Kind
		wantKey string
		wantErr bool
	}{
		{
			name:    "video with extension",
			url:     "https://cdn.example.com/v1/assets/rec_01J5X2.mp4",
			kind:    KindVideo,
			wantKey: "recvault/recordings/rec_01J5X2",
		},
		{
			name:    "thumbnail with extension",
			url:     "https://cdn.example.com/v1/assets/rec_01J5X2.jpg",
			kind:    KindImage,
			wantKey: "recvault/thumbnails/rec_01J5X2",
		},
		{
			name:    "no extension",
			url:     "http://localhost:9000/recvault/recvault/recordings/rec_01J5X2",
			kind:    KindVideo,
			wantKey: "recvault/recordings/rec_01J5X2",
		},
		{
			name:    "query string ignored",
			url:     "https://cdn.example.com/assets/rec_7.webm?expires=12345",
			kind:    KindVideo,
			wantKey: "recvault/recordings/rec_7",
		},
		{
			name:    "empty url",
			url:     "",
			kind:    KindVideo,
			wantErr: true,
		},
		{
			name:    "only extension",
			url:     "https://cdn.example.com/assets/.mp4",
			kind:    KindVideo,
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := testNS.RefFromURL(tc.url, tc.kind)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("RefFromURL(%q) expected error, got %v", tc.url, ref)
				}

				return
			}

			if err != nil {
				t.Fatalf("RefFromURL(%q) error: %v", tc.url, err)
			}

			if ref.Key != tc.wantKey {
				t.Errorf("RefFromURL(%q) key = %q, want %q", tc.url, ref.Key, tc.wantKey)
			}

			if ref.Bucket != testNS.Bucket {
				t.Errorf("RefFromURL(%q) bucket = %q, want %q", tc.url, ref.Bucket, testNS.Bucket)
			}

			if ref.Kind != tc.kind {
				t.Errorf("RefFromURL(%q) kind = %q, want %q", tc.url, ref.Kind, tc.kind)
			}
		})
	}
}

func TestRecordingRefRoundTrip(t *testing.T) {
	// 上传键不带扩展名，URL 末段解析必须还原出同一个键.
	ref := testNS.RecordingRef("rec_01J5X2")
	url := "http://localhost:9000/" + ref.Bucket + "/" + ref.Key

	got, err := testNS.RefFromURL(url, KindVideo)
	if err != nil {
		t.Fatalf("RefFromURL: %v", err)
	}

	if got.Key != ref.Key {
		t.Errorf("round trip key = %q, want %q", got.Key, ref.Key)
	}
}

func TestThumbnailRef(t *testing.T) {
	ref := testNS.ThumbnailRef("rec_9")
	if ref.Key != "recvault/thumbnails/rec_9" {
		t.Errorf("ThumbnailRef key = %q", ref.Key)
	}

	if ref.Kind != KindImage {
		t.Errorf("ThumbnailRef kind = %q", ref.Kind)
	}
}
