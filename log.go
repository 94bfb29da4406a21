// Copyright 2015 Google Inc. All rights reserved
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pyrrhic

import "github.com/golang/glog"

// This package logs exclusively through glog, same as the teacher, rather
// than through fmt.Printf plus a package-level verbosity flag: a library
// has no business calling os.Exit or writing straight to stdout, so the
// kati functions this file used to carry (Warn, Error, ErrorNoLocation,
// each ending in an os.Exit(2) for a command-line tool) have no place
// here. Library code logs at a verbosity level and returns an error; only
// cmd/pyrrhicb decides what a fatal condition looks like.

// logf is a V(1) diagnostic: one line per resolved output, structural
// change found while planning, or applied node. Callers that want these visible run with
// -logtostderr -v=1.
func logf(format string, args ...interface{}) {
	glog.V(1).Infof(format, args...)
}

// warnf is a V(0) diagnostic for conditions worth a default-visible
// warning but not worth failing the run over (e.g. a declared output that
// falls outside a glob's base directory).
func warnf(format string, args ...interface{}) {
	glog.Warningf(format, args...)
}
