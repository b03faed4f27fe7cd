package sink

import (
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

func TestValidateS3Config(t *testing.T) {
	tests := []struct {
		name    string
		cfg     S3Config
		wantErr bool
	}{
		{name: "valid", cfg: S3Config{Bucket: "b", Region: "us-east-1"}},
		{name: "missing bucket", cfg: S3Config{Region: "us-east-1"}, wantErr: true},
		{name: "missing region", cfg: S3Config{Bucket: "b"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateS3Config(tt.cfg); (err != nil) != tt.wantErr {
				t.Errorf("validateS3Config() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestS3Store_PutInput(t *testing.T) {
	tests := []struct {
		name    string
		store   S3Store
		wantSSE types.ServerSideEncryption
		wantKMS string
	}{
		{name: "no encryption", store: S3Store{bucket: "b"}},
		{name: "sse-s3", store: S3Store{bucket: "b", sseEnabled: true}, wantSSE: types.ServerSideEncryptionAes256},
		{
			name:    "sse-kms",
			store:   S3Store{bucket: "b", sseEnabled: true, sseKMSKeyID: "key-1"},
			wantSSE: types.ServerSideEncryptionAwsKms,
			wantKMS: "key-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.store.putInput("dt=2025-12-21/a.txt", []byte("hello"), "text/plain")

			if aws.ToString(input.Bucket) != "b" || aws.ToString(input.Key) != "dt=2025-12-21/a.txt" {
				t.Errorf("bucket/key = %s/%s", aws.ToString(input.Bucket), aws.ToString(input.Key))
			}
			if aws.ToString(input.ContentType) != "text/plain" {
				t.Errorf("ContentType = %s", aws.ToString(input.ContentType))
			}
			if input.ServerSideEncryption != tt.wantSSE {
				t.Errorf("ServerSideEncryption = %v, want %v", input.ServerSideEncryption, tt.wantSSE)
			}
			if aws.ToString(input.SSEKMSKeyId) != tt.wantKMS {
				t.Errorf("SSEKMSKeyId = %v, want %v", aws.ToString(input.SSEKMSKeyId), tt.wantKMS)
			}
			body, _ := io.ReadAll(input.Body)
			if string(body) != "hello" {
				t.Errorf("body = %q", body)
			}
		})
	}
}

func TestGCSClientOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  GCSConfig
		want int
	}{
		{name: "default credentials", cfg: GCSConfig{UseDefaultCredential: true, CredentialsFile: "ignored.json"}, want: 0},
		{name: "credentials json", cfg: GCSConfig{CredentialsJSON: "{}"}, want: 1},
		{name: "credentials file with endpoint", cfg: GCSConfig{CredentialsFile: "creds.json", Endpoint: "http://localhost:4443"}, want: 2},
		{name: "nothing configured", cfg: GCSConfig{}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(gcsClientOptions(tt.cfg)); got != tt.want {
				t.Errorf("len(gcsClientOptions()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAzureConnectionString(t *testing.T) {
	cfg := AzureConfig{AccountName: "acct", AccountKey: "a2V5"}

	got := azureConnectionString(cfg)
	if !strings.Contains(got, "AccountName=acct;AccountKey=a2V5") || !strings.HasSuffix(got, "EndpointSuffix=core.windows.net") {
		t.Errorf("connection string = %q", got)
	}

	cfg.Endpoint = "http://127.0.0.1:10000/acct"
	got = azureConnectionString(cfg)
	if !strings.HasSuffix(got, "BlobEndpoint=http://127.0.0.1:10000/acct") {
		t.Errorf("connection string with endpoint = %q", got)
	}
}

func TestNewAzureStore(t *testing.T) {
	store, err := NewAzureStore(AzureConfig{
		AccountName:   "devstoreaccount1",
		AccountKey:    "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==",
		ContainerName: "chunks",
		Endpoint:      "http://127.0.0.1:10000/devstoreaccount1",
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewAzureStore() error = %v", err)
	}
	if store.Backend() != "azure" {
		t.Errorf("Backend() = %v, want azure", store.Backend())
	}
}
