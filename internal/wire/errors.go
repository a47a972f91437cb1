// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "errors"

var (
	// ErrChannelDead reports that a channel read or write has failed in a
	// way the session cannot recover from (spec §4.7: any channel read or
	// write failure transitions the session to DEAD).
	ErrChannelDead = errors.New("wire: channel dead")

	// ErrResyncFailed reports that startup resynchronization (spec §4.1)
	// never observed the "{{" sentinel before the channel closed.
	ErrResyncFailed = errors.New("wire: resync failed")

	// ErrTooLong reports a payload larger than MaxItemLength.
	ErrTooLong = errors.New("wire: item too long")
)
