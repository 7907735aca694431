// Package license writes a LICENSE file for the license chosen when a project
// is created.
package license

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
)

// FileName is the name of the generated license file.
const FileName = "LICENSE"

// Unlicensed marks a proprietary project; no file is written for it.
const Unlicensed = "UNLICENSED"

// ErrUnsupported is returned for license identifiers without a bundled text.
var ErrUnsupported = errors.New("unsupported license")

// Data fills the license text.
type Data struct {
	Year   int
	Holder string // e.g. "Jane Doe <jane@example.com>"
}

var texts = map[string]string{
	"MIT": `MIT License

Copyright (c) {{.Year}} {{.Holder}}

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`,
	"ISC": `ISC License

Copyright (c) {{.Year}} {{.Holder}}

Permission to use, copy, modify, and/or distribute this software for any
purpose with or without fee is hereby granted, provided that the above
copyright notice and this permission notice appear in all copies.

THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
`,
	"BSD-2-Clause": `BSD 2-Clause License

Copyright (c) {{.Year}}, {{.Holder}}

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
   list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
   this list of conditions and the following disclaimer in the documentation
   and/or other materials provided with the distribution.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.
`,
	"Apache-2.0": `Copyright {{.Year}} {{.Holder}}

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
`,
}

// Supported returns the bundled license identifiers plus UNLICENSED, sorted.
func Supported() []string {
	ids := make([]string, 0, len(texts)+1)
	for id := range texts {
		ids = append(ids, id)
	}
	ids = append(ids, Unlicensed)
	sort.Strings(ids)
	return ids
}

// canonical maps an identifier to its bundled spelling, case-insensitively.
func canonical(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if strings.EqualFold(id, Unlicensed) {
		return Unlicensed, true
	}
	for known := range texts {
		if strings.EqualFold(known, id) {
			return known, true
		}
	}
	return "", false
}

// Render returns the license text for id.
func Render(id string, data Data) (string, error) {
	name, ok := canonical(id)
	if !ok || name == Unlicensed {
		return "", fmt.Errorf("%w %q: choose one of %s", ErrUnsupported, id, strings.Join(Supported(), ", "))
	}

	tmpl, err := template.New(name).Parse(texts[name])
	if err != nil {
		return "", fmt.Errorf("parsing %s license: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s license: %w", name, err)
	}
	return buf.String(), nil
}

// Write renders id into dir/LICENSE. It reports false without error for
// UNLICENSED and when the template already shipped a LICENSE file.
func Write(dir, id string, data Data) (bool, error) {
	if name, ok := canonical(id); ok && name == Unlicensed {
		return false, nil
	}

	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	text, err := Render(id, data)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
