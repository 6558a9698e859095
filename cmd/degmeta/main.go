// Copyright (C) The degmeta Authors. All rights reserved.
//
// SPDX-License-Identifier: AGPL-3.0

package main

import (
	"github.com/openbio/degmeta"
)

func main() {
	degmeta.Main()
}
