// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package metrics exports router dispatch counters to Prometheus and
// OpenTelemetry.
//
// Counters are only populated when the router was created with
// dispatch.WithDebug(true).
//
//	r := dispatch.MustNew(dispatch.WithDebug(true))
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(metrics.NewCollector(r))
//
// For OpenTelemetry, RegisterOTel observes the same counters on any meter
// provider; PrometheusProvider and StdoutProvider build ready-made ones.
package metrics
