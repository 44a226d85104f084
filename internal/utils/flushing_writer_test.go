package utils_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/utils"
)

type flushRecordingWriter struct {
	buffer     bytes.Buffer
	flushCount int
}

func (writer *flushRecordingWriter) Write(data []byte) (int, error) {
	return writer.buffer.Write(data)
}

func (writer *flushRecordingWriter) Flush() error {
	writer.flushCount++
	return nil
}

func TestFlushingWriterFlushesAfterEachWrite(testInstance *testing.T) {
	recordingWriter := &flushRecordingWriter{}
	flushingWriter := utils.NewFlushingWriter(recordingWriter)

	writtenBytes, writeError := flushingWriter.Write([]byte("cloning"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, len("cloning"), writtenBytes)
	require.Equal(testInstance, 1, recordingWriter.flushCount)
	require.Equal(testInstance, "cloning", recordingWriter.buffer.String())
}

func TestFlushingWriterPassesThroughPlainWriters(testInstance *testing.T) {
	plainBuffer := &bytes.Buffer{}
	flushingWriter := utils.NewFlushingWriter(plainBuffer)

	_, writeError := flushingWriter.Write([]byte("progress"))
	require.NoError(testInstance, writeError)
	require.Equal(testInstance, "progress", plainBuffer.String())
}

func TestFlushingWriterDoesNotDoubleWrap(testInstance *testing.T) {
	plainBuffer := &bytes.Buffer{}
	firstWrapper := utils.NewFlushingWriter(plainBuffer)
	secondWrapper := utils.NewFlushingWriter(firstWrapper)

	require.Same(testInstance, firstWrapper, secondWrapper)
}

func TestFlushingWriterHandlesNilWriter(testInstance *testing.T) {
	require.Nil(testInstance, utils.NewFlushingWriter(nil))
}
