// Copyright (c) 2025 Lihong Zhang
// SPDX-License-Identifier: MIT

package util

import "strconv"

// IntToString converts an int to string without fmt.
func IntToString(i int) string {
	return strconv.Itoa(i)
}

// Int64ToString converts an int64 to string without fmt.
func Int64ToString(i int64) string {
	return strconv.FormatInt(i, 10)
}

// FloatToString converts a float64 to string with 2 decimal places.
func FloatToString(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
