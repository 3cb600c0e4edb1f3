package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 音频上传相关常量
const (
	MimeAudio       = "audio/"
	MimeWav         = "audio/wav"
	MimeMpeg        = "audio/mpeg"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedAudioExtensions = []string{".wav", ".mp3", ".m4a", ".ogg", ".webm", ".flac"}
)
