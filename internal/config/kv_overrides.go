package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides. Unknown keys and
// unparsable values are ignored.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])
		switch {
		case key == "log_file":
			cfg.LogFile = val
		case key == "log_level":
			cfg.LogLevel = val
		case key == "events_log":
			cfg.EventsLog = val
		case key == "history.file":
			cfg.History.File = val
		case key == "history.disabled":
			setBool(&cfg.History.Disabled, val)
		case strings.HasPrefix(key, "tool."):
			applyTool(&cfg.Tool, strings.TrimPrefix(key, "tool."), val)
		case strings.HasPrefix(key, "nunit."):
			applyNUnit(&cfg.NUnit, strings.TrimPrefix(key, "nunit."), val)
		}
	}
	return cfg
}

func applyTool(t *ToolSection, key, val string) {
	switch {
	case key == "name":
		t.Name = val
	case key == "path":
		t.Path = val
	case key == "search_paths":
		t.SearchPaths = splitList(val)
	case key == "args":
		t.Args = splitList(val)
	case key == "flags":
		t.Flags = splitList(val)
	case key == "response_file":
		setBool(&t.ResponseFile, val)
	case key == "response_file_prefix":
		t.ResponseFilePrefix = val
	case key == "response_file_dir":
		t.ResponseFileDir = val
	case key == "workdir":
		t.WorkDir = val
	case key == "timeout":
		t.Timeout = val
	case key == "pty":
		setBool(&t.PTY, val)
	case key == "capture_bytes":
		if n, err := strconv.Atoi(val); err == nil {
			t.CaptureBytes = n
		}
	case strings.HasPrefix(key, "env."):
		// Config is passed by value but its map is shared; write to a copy.
		env := make(map[string]string, len(t.Env)+1)
		for k, v := range t.Env {
			env[k] = v
		}
		env[strings.TrimPrefix(key, "env.")] = val
		t.Env = env
	case strings.HasPrefix(key, "switch."):
		name := strings.TrimPrefix(key, "switch.")
		switches := append([]SwitchSection(nil), t.Switches...)
		t.Switches = switches
		for i := range switches {
			if switches[i].Name == name {
				switches[i].Value = val
				return
			}
		}
		t.Switches = append(switches, SwitchSection{Name: name, Value: val})
	}
}

func applyNUnit(n *NUnitSection, key, val string) {
	switch key {
	case "assemblies":
		n.Assemblies = splitList(val)
	case "result":
		n.Result = val
	case "x86":
		setBool(&n.X86, val)
	case "framework":
		n.Framework = val
	case "agents":
		n.Agents = val
	case "where":
		n.Where = val
	case "tool_path":
		n.ToolPath = val
	case "search_paths":
		n.SearchPaths = splitList(val)
	case "workdir":
		n.WorkDir = val
	case "timeout":
		n.Timeout = val
	case "response_file":
		var b bool
		if setBool(&b, val) {
			n.ResponseFile = &b
		}
	}
}

func setBool(dst *bool, val string) bool {
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false
	}
	*dst = b
	return true
}

func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
