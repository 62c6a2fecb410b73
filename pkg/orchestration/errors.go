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

import "errors"

// ErrNoData indicates a semantically valid but empty result, e.g. zero
// answers retrieved across both refinement rounds, or no answer with a
// template available for liveboard assembly. Callers render it as a
// user-visible error, not a crash.
var ErrNoData = errors.New("no data found")
