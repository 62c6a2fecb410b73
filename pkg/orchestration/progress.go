// Copyright 2026 ThoughtSpot
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package orchestration

// ProgressFunc receives advisory progress updates during long-running
// operations. Implementations must not block; the pipeline never waits on
// the consumer.
type ProgressFunc func(message string, progress float64)

// Report invokes the callback with progress clamped to [0, 100].
// Safe to call on a nil ProgressFunc.
func (f ProgressFunc) Report(message string, progress float64) {
	if f == nil {
		return
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	f(message, progress)
}
