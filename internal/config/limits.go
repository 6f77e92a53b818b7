package config

import "time"

const (
	// MaxCourseTitleLength is the maximum length for course titles.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (titles should be short and descriptive).
	MaxCourseTitleLength = 255

	// MaxLessonTitleLength is the maximum length for lesson titles.
	// Same as course titles for consistency.
	MaxLessonTitleLength = 255

	// DefaultMinContentWords is the word count below which a lesson is
	// flagged as too short by the content-length validator.
	DefaultMinContentWords = 100

	// DefaultMaxContentWords is the word count above which a lesson is
	// flagged as too long by the content-length validator.
	DefaultMaxContentWords = 3000

	// LinkCheckTimeout bounds each HEAD request issued by the link
	// validator. A request that exceeds it counts as a timeout outcome,
	// not a broken link.
	LinkCheckTimeout = 5 * time.Second

	// LinkCheckConcurrency caps in-flight HEAD requests.
	LinkCheckConcurrency = 10

	// DeepValidatorMaxRetries is the retry budget for retryable
	// structured-generation failures.
	DeepValidatorMaxRetries = 2

	// DeepValidatorBackoff is the initial backoff before the first retry;
	// it doubles per attempt.
	DeepValidatorBackoff = 1 * time.Second

	// DeepValidatorMaxOutputTokens is the output budget passed to the
	// structured-generation collaborator per deep check.
	DeepValidatorMaxOutputTokens = 2048

	// LogFileRetention is how many timestamped server log files to keep
	// on disk; older ones are pruned at startup.
	LogFileRetention = 10
)
