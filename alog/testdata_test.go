package alog_test

import (
	"context"
)

const applicationMsg = "application message"

var ctx = context.Background()
