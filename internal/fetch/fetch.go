// Package fetch resolves source references to local files. A reference is
// a plain filesystem path, a file:// path, an http(s):// URL, or an
// s3://bucket/key object; remote sources are downloaded to a temporary
// file that lives only for the duration of one operation.
package fetch

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/local/pdfdesk/internal/metrics"
	"github.com/local/pdfdesk/internal/operr"
)

const op = "fetch"

// tempPrefix names downloaded files so stale ones can be swept later.
const tempPrefix = "pdfdesk-fetch-"

// Options configures a Resolver.
type Options struct {
	TempDir    string
	Passphrase string

	// Optional static AWS credentials; the default chain is used when empty.
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// Resolver turns source references into local paths.
type Resolver struct {
	opts Options

	s3Client *s3.Client
}

// New creates a Resolver. The S3 client is built lazily on the first
// s3:// reference.
func New(opts Options) *Resolver {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &Resolver{opts: opts}
}

// Localize resolves ref to a local path. The returned cleanup removes any
// temporary the resolution created and is safe to call exactly once.
func (r *Resolver) Localize(ctx context.Context, ref string) (string, func(), error) {
	noop := func() {}

	// strip an optional #page fragment
	if i := strings.Index(ref, "#"); i >= 0 {
		ref = ref[:i]
	}

	switch {
	case strings.HasPrefix(ref, "s3://"):
		path, err := r.downloadS3(ctx, ref)
		if err != nil {
			metrics.IncFetch("error")
			return "", noop, err
		}
		metrics.IncFetch("success")
		return path, func() { os.Remove(path) }, nil

	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		path, err := r.downloadHTTP(ctx, ref)
		if err != nil {
			metrics.IncFetch("error")
			return "", noop, err
		}
		metrics.IncFetch("success")
		return path, func() { os.Remove(path) }, nil

	case strings.HasPrefix(ref, "file://"):
		return r.local(strings.TrimPrefix(ref, "file://"))

	default:
		return r.local(ref)
	}
}

func (r *Resolver) local(path string) (string, func(), error) {
	noop := func() {}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", noop, operr.New(operr.KindNotFound, op, "file not found: %s", path)
		}
		return "", noop, operr.Wrap(operr.KindIO, op, err, "stat %s", path)
	}
	return path, noop, nil
}

func (r *Resolver) tempPath() string {
	return filepath.Join(r.opts.TempDir, tempPrefix+uuid.NewString()+".pdf")
}

func (r *Resolver) downloadHTTP(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", operr.Wrap(operr.KindMalformed, op, err, "invalid url %s", url)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", operr.Wrap(operr.KindDelegated, op, err, "downloading %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", operr.New(operr.KindNotFound, op, "source not found: %s", url)
	}
	if resp.StatusCode != http.StatusOK {
		return "", operr.New(operr.KindDelegated, op, "http %d fetching %s", resp.StatusCode, url)
	}

	path := r.tempPath()
	f, err := os.Create(path)
	if err != nil {
		return "", operr.Wrap(operr.KindIO, op, err, "creating temp file")
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", operr.Wrap(operr.KindIO, op, err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", operr.Wrap(operr.KindIO, op, err, "writing %s", path)
	}

	log.Debug().Str("url", url).Str("file", filepath.Base(path)).Msg("downloaded http source to temp")
	return path, nil
}

func (r *Resolver) downloadS3(ctx context.Context, ref string) (string, error) {
	bucket, key, err := ParseS3Ref(ref)
	if err != nil {
		return "", err
	}

	cli, err := r.s3(ctx)
	if err != nil {
		return "", err
	}

	path := r.tempPath()

	// encrypted objects need the whole payload in memory before decryption
	if strings.HasSuffix(key, ".enc") {
		out, err := cli.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
		if err != nil {
			return "", s3Error(err, bucket, key)
		}
		defer out.Body.Close()

		payload, err := io.ReadAll(out.Body)
		if err != nil {
			return "", operr.Wrap(operr.KindIO, op, err, "reading s3://%s/%s", bucket, key)
		}

		plain, err := decryptGCM(payload, r.opts.Passphrase)
		if err != nil {
			return "", operr.Wrap(operr.KindDelegated, op, err, "decrypting s3://%s/%s", bucket, key)
		}
		if err := os.WriteFile(path, plain, 0o600); err != nil {
			return "", operr.Wrap(operr.KindIO, op, err, "writing %s", path)
		}

		log.Info().Str("bucket", bucket).Str("key", key).Str("file", filepath.Base(path)).Msg("downloaded and decrypted s3 source")
		return path, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return "", operr.Wrap(operr.KindIO, op, err, "creating temp file")
	}
	downloader := manager.NewDownloader(cli)
	if _, err := downloader.Download(ctx, f, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}); err != nil {
		f.Close()
		os.Remove(path)
		return "", s3Error(err, bucket, key)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", operr.Wrap(operr.KindIO, op, err, "writing %s", path)
	}

	log.Info().Str("bucket", bucket).Str("key", key).Str("file", filepath.Base(path)).Msg("downloaded s3 source to temp")
	return path, nil
}

func (r *Resolver) s3(ctx context.Context) (*s3.Client, error) {
	if r.s3Client != nil {
		return r.s3Client, nil
	}

	var loadOpts []func(*awscfg.LoadOptions) error
	if r.opts.S3Region != "" {
		loadOpts = append(loadOpts, awscfg.WithRegion(r.opts.S3Region))
	}
	if r.opts.S3AccessKey != "" && r.opts.S3SecretKey != "" {
		loadOpts = append(loadOpts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(r.opts.S3AccessKey, r.opts.S3SecretKey, "")))
	}

	cfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, operr.Wrap(operr.KindDelegated, op, err, "loading aws config")
	}
	r.s3Client = s3.NewFromConfig(cfg)
	return r.s3Client, nil
}

func s3Error(err error, bucket, key string) error {
	return operr.Wrap(operr.Classify(err), op, err, "fetching s3://%s/%s", bucket, key)
}

// ParseS3Ref splits s3://bucket/key into its parts.
func ParseS3Ref(ref string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(ref, "s3://")
	slash := strings.Index(rest, "/")
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", operr.New(operr.KindMalformed, op, "invalid s3 reference %q", ref)
	}
	return rest[:slash], rest[slash+1:], nil
}

// IsRemote reports whether ref needs a download before use.
func IsRemote(ref string) bool {
	return strings.HasPrefix(ref, "s3://") ||
		strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://")
}

// CleanupStale removes downloaded temporaries older than maxAge that a
// crashed or killed process left behind.
func CleanupStale(tempDir string, maxAge time.Duration) {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	entries, err := os.ReadDir(tempDir)
	if err != nil {
		return
	}
	now := time.Now()
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) >= maxAge {
			_ = os.Remove(filepath.Join(tempDir, e.Name()))
		}
	}
}
