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

import (
	"fmt"
	"sync"
	"time"
)

// RunStats counts the work one resolve/build/plan cycle did. Grounded in
// kati's stats.go statsT/DumpStats, replacing its per-eval-callsite timing
// table (there is no variable-evaluation language here to profile) with
// the counters this engine's own stages naturally produce.
type RunStats struct {
	mu sync.Mutex

	RulesResolved   int
	OutputsResolved int
	NodesBuilt      int
	LinksBuilt      int
	CycleChecks     int
	PlanDeletes     int
	PlanWrites      int
	Elapsed         time.Duration
}

func (s *RunStats) addRule()             { s.mu.Lock(); s.RulesResolved++; s.mu.Unlock() }
func (s *RunStats) addOutput()           { s.mu.Lock(); s.OutputsResolved++; s.mu.Unlock() }
func (s *RunStats) addNode()             { s.mu.Lock(); s.NodesBuilt++; s.mu.Unlock() }
func (s *RunStats) addLink()             { s.mu.Lock(); s.LinksBuilt++; s.mu.Unlock() }
func (s *RunStats) addCycleCheck()       { s.mu.Lock(); s.CycleChecks++; s.mu.Unlock() }
func (s *RunStats) addPlan(op PlanOp) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if op == OpDelete {
		s.PlanDeletes++
	} else {
		s.PlanWrites++
	}
}

// String renders a one-line summary, in the spirit of kati's DumpStats CSV
// line but condensed to what a single run of this engine reports.
func (s *RunStats) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf(
		"rules=%d outputs=%d nodes=%d links=%d cycle_checks=%d plan(d=%d,w=%d) elapsed=%s",
		s.RulesResolved, s.OutputsResolved, s.NodesBuilt, s.LinksBuilt,
		s.CycleChecks, s.PlanDeletes, s.PlanWrites, s.Elapsed)
}
