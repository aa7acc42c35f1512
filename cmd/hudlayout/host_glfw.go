//go:build glfw

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"hudlayout/internal/editor"
	"hudlayout/internal/host/glfwhost"
	"hudlayout/internal/settings"
)

func runGLFW(m *editor.Manager, store *settings.Store, screen string) error {
	return glfwhost.Run(glfwhost.Config{Screen: screen, VSync: true}, m, store)
}
