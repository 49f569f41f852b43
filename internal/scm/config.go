package scm

import "time"

type Config struct {
	Timeout     time.Duration
	AuthorName  string
	AuthorEmail string
}
