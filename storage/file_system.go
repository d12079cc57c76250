package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/spf13/afero"
)

func CreateFile(fs afero.Fs, path string) (afero.File, error) {
	if err := fs.MkdirAll(filepath.Dir(path), os.FileMode(0777)); err != nil {
		return nil, err
	}
	return fs.Create(path)
}

// Stager copies uploaded archives from S3 into a local working directory.
type Stager struct {
	fs         afero.Fs
	workDir    string
	downloader *s3manager.Downloader
}

func NewStager(sess *session.Session, fs afero.Fs, workDir string) *Stager {
	return &Stager{
		fs:         fs,
		workDir:    workDir,
		downloader: s3manager.NewDownloader(sess),
	}
}

// Stage downloads bucket/key to <workDir>/<archiveID>.zip and returns the local path.
func (s *Stager) Stage(bucket, key, archiveID string) (string, error) {
	path := filepath.Join(s.workDir, archiveID+".zip")
	file, err := CreateFile(s.fs, path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := DownloadArchive(s.downloader, bucket, key, file); err != nil {
		s.fs.Remove(path)
		return "", fmt.Errorf("unable to download s3://%s/%s: %w", bucket, key, err)
	}
	return path, nil
}

// Release deletes a staged archive. Archives are not kept once parsed.
func (s *Stager) Release(path string) error {
	return s.fs.Remove(path)
}

func DownloadArchive(downloader *s3manager.Downloader, bucket, key string, file afero.File) error {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if _, err := downloader.Download(file, input); err != nil {
		return err
	}
	return nil
}
