// Copyright (c) 2026 Yamdb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant conversions for query parameters.

Do not use it where a malformed value must be told apart from an absent one.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts a string to an int, returning def if parsing fails or the string is empty.
func ToIntD(str string, def int) int {
	str = strings.TrimSpace(str)
	if str == "" {
		return def
	}

	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	return def
}

// ToIntP converts a string to an *int. It returns nil when the value is empty or malformed.
func ToIntP(str string) *int {
	str = strings.TrimSpace(str)
	if str == "" {
		return nil
	}

	v, err := strconv.Atoi(str)
	if err != nil {
		return nil
	}
	return &v
}
