/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package models defines the schema-less tree node model shared by the
// store backends and the dashboard engine, plus the field vocabulary of
// the kiosk application records.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Node is any value held at a tree path: a scalar (string, number, bool)
// or a Record. Store backends decode JSON, so numbers usually arrive as
// float64.
type Node = interface{}

// Record is a mapping node. The store enforces no schema; callers must
// normalize before treating a Node as a Record.
type Record = map[string]interface{}

// Field names of the kiosk application and device records.
const (
	RootApps = "aplikasi"

	FieldDescription   = "keterangan"
	FieldKioskPIN      = "kiosk_mode_pin"
	FieldDevices       = "perangkat"
	FieldDeviceName    = "nama_perangkat"
	FieldBatteryPct    = "persen_baterai"
	FieldBatteryStatus = "status_baterai"
	FieldSound         = "suara"
	FieldFlash         = "flash"
	FieldClearMessage  = "pesan_clear_virus"
	FieldTime          = "waktu"
	FieldTimeStart     = "waktu_start"
)

// AsRecord returns the node as a Record when it is one.
func AsRecord(n Node) (Record, bool) {
	rec, ok := n.(Record)
	return rec, ok
}

// NormalizeRecord returns the node as a Record, or an empty Record when the
// node is absent or a scalar. Every store read that expects a Record goes
// through this before field access.
func NormalizeRecord(n Node) Record {
	if rec, ok := n.(Record); ok && rec != nil {
		return rec
	}

	return Record{}
}

// Truthy reports whether a node counts as present for rendering: nil, empty
// strings, zero numbers, false and empty records do not.
func Truthy(n Node) bool {
	switch v := n.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		return v != "" && v != "0"
	case Record:
		return len(v) > 0
	default:
		return true
	}
}

// FormatScalar renders a scalar node as display text. Floats drop the
// fractional part when it is zero, so a stored 80 never renders as "80.0".
func FormatScalar(n Node) string {
	switch v := n.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
