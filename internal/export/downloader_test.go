package export

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestResponseDownloader(t *testing.T) {
	rec := httptest.NewRecorder()
	err := ResponseDownloader{W: rec}.Download(context.Background(), "alerts_export_1.csv", "text/csv", []byte("a,b\n"))
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if got := rec.Header().Get("Content-Disposition"); got != "attachment; filename=alerts_export_1.csv" {
		t.Errorf("Content-Disposition = %q", got)
	}
	if rec.Header().Get("Content-Type") != "text/csv" || rec.Body.String() != "a,b\n" {
		t.Errorf("unexpected response %q / %q", rec.Header().Get("Content-Type"), rec.Body.String())
	}
}

type failingResponse struct {
	*httptest.ResponseRecorder
}

func (f failingResponse) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestResponseDownloader_WriteFailure(t *testing.T) {
	rec := failingResponse{httptest.NewRecorder()}
	err := ResponseDownloader{W: rec}.Download(context.Background(), "alerts_export_1.csv", "text/csv", []byte("a,b\n"))

	if !errors.Is(err, ErrResponseStarted) {
		t.Fatalf("Download() error = %v, want ErrResponseStarted", err)
	}
	if rec.Code != 200 {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestDirDownloader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	d := DirDownloader{Dir: dir}

	if err := d.Download(context.Background(), "../escape.csv", "text/csv", []byte("x")); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "escape.csv"))
	if err != nil {
		t.Fatalf("file not written inside dir: %v", err)
	}
	if string(data) != "x" {
		t.Errorf("content = %q", data)
	}
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Downloader(t *testing.T) {
	fake := &fakeS3{}
	d := S3Downloader{Client: fake, Bucket: "orion-archive", Prefix: "exports/daily"}

	if err := d.Download(context.Background(), "alerts_export_1.csv", "text/csv", []byte("a,b")); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if aws.ToString(fake.input.Bucket) != "orion-archive" {
		t.Errorf("bucket = %s", aws.ToString(fake.input.Bucket))
	}
	if aws.ToString(fake.input.Key) != "exports/daily/alerts_export_1.csv" {
		t.Errorf("key = %s", aws.ToString(fake.input.Key))
	}
	if aws.ToString(fake.input.ContentType) != "text/csv" || string(fake.body) != "a,b" {
		t.Errorf("upload = %s %q", aws.ToString(fake.input.ContentType), fake.body)
	}
}
