package download

const (
	// ChunkSize - Number of bytes sent in response to every data-request prompt
	ChunkSize = 128

	// DefaultCommand - Line sent to the device to make it start receiving an image
	DefaultCommand = "system update"

	// Prompts sent by the device
	promptFailed  = '?'
	promptRequest = '<'
	promptDone    = 'O'

	lineTerminator = '\n'
)

// NextChunk - Returns the chunk starting at cursor, zero-padded to ChunkSize,
// and the number of real image bytes it carries. When the cursor is at or past
// the end of the image it returns (nil, 0) and nothing should be sent.
func NextChunk(image []byte, cursor int) ([]byte, int) {
	if cursor < 0 || cursor >= len(image) {
		return nil, 0
	}

	end := cursor + ChunkSize
	if end > len(image) {
		end = len(image)
	}

	chunk := make([]byte, ChunkSize)
	n := copy(chunk, image[cursor:end])

	return chunk, n
}

// ChunkCount - Number of non-empty chunks needed to transfer an image of the given length
func ChunkCount(length int) int {
	if length <= 0 {
		return 0
	}
	return (length + ChunkSize - 1) / ChunkSize
}
