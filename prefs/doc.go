// This file is part of Framepace.
//
// Framepace is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Framepace is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Framepace.  If not, see <https://www.gnu.org/licenses/>.


// Package prefs holds the typed preference values used to tune the pacing
// context. Each value can be set from a Go value or from a string, and can
// have a function called before and after the value changes.
//
// Values are grouped by name with the Group type. A group can be set from a
// single string of key/value pairs:
//
//	fps::60; background::15; interpolate::true
//
// Preferences are not read from or written to disk. Where the values come
// from is up to the program using the package.
package prefs
