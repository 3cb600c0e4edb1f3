package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// AudioInfo 存储音频信息
type AudioInfo struct {
	Duration   float64 `json:"duration"` // 音频时长（秒）
	SampleRate int     `json:"sampleRate"`
	Channels   int     `json:"channels"`
	Format     string  `json:"format"`
	Size       int64   `json:"size"`
}

// GetAudioInfo 使用ffmpeg-go库获取音频信息
func GetAudioInfo(audioPath string) (*AudioInfo, error) {
	fileInfo, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("audio file not found: %v", err)
	}

	jsonOutput, err := ffmpeg.Probe(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to probe audio: %v", err)
	}

	var result struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			SampleRate string `json:"sample_rate"`
			Channels   int    `json:"channels"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}

	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("failed to parse audio info: %v", err)
	}

	var sampleRate, channels int
	for _, stream := range result.Streams {
		if stream.CodecType == "audio" {
			sampleRate, _ = strconv.Atoi(stream.SampleRate)
			channels = stream.Channels
			break
		}
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		duration = 0
	}

	return &AudioInfo{
		Duration:   duration,
		SampleRate: sampleRate,
		Channels:   channels,
		Format:     result.Format.Format,
		Size:       fileInfo.Size(),
	}, nil
}

// NormalizeAudioForSTT 将任意上传音频转为单声道16bit PCM WAV，采样率由语音配置决定。
// STT供应商只接受LINEAR16编码。
func NormalizeAudioForSTT(srcPath, dstPath string, sampleRateHertz int) error {
	if sampleRateHertz <= 0 {
		sampleRateHertz = 16000
	}

	err := ffmpeg.Input(srcPath).
		Output(dstPath, ffmpeg.KwArgs{
			"acodec": "pcm_s16le",
			"ac":     1,
			"ar":     sampleRateHertz,
		}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		return fmt.Errorf("failed to transcode audio: %v", err)
	}
	return nil
}
