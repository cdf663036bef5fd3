package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/pulsartiming/gopsr"
	"github.com/pulsartiming/gopsr/internal/parsetools"
	"github.com/pulsartiming/gopsr/par"
	"github.com/pulsartiming/gopsr/tim"
)

func (a *app) dumpCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Print the parsed model of a par or tim file",
		Example: `  gopsr dump J1713+0747.par
  gopsr dump --format yaml J1713+0747.tim`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.outputFormat(format, "text", "json", "yaml", "toml")
			if err != nil {
				return err
			}
			name := args[0]

			var v any
			switch fileKind(name) {
			case "par":
				pf, err := gopsr.ReadParFile(name, a.options()...)
				if err != nil {
					return err
				}
				v = dumpPar(pf)
			case "tim":
				toas, err := gopsr.ReadTimFile(cmd.Context(), name, a.options()...)
				if err != nil {
					return err
				}
				v = dumpTim(name, toas)
			default:
				return fmt.Errorf("unknown file type for %s (want .par or .tim)", name)
			}
			return encode(cmd.OutOrStdout(), out, v)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, yaml, toml (default json)")
	return cmd
}

// dumpFormat maps text to json, since models have no text rendering.
func dumpFormat(format string) string {
	if format == "text" {
		return "json"
	}
	return format
}

func encode(w io.Writer, format string, v any) error {
	switch dumpFormat(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "toml":
		return toml.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("unknown output format %q", format)
}

type valueDump struct {
	Name        string  `json:"name" yaml:"name" toml:"name"`
	Value       string  `json:"value" yaml:"value" toml:"value"`
	Fit         *bool   `json:"fit,omitempty" yaml:"fit,omitempty" toml:"fit,omitempty"`
	Uncertainty float64 `json:"uncertainty,omitempty" yaml:"uncertainty,omitempty" toml:"uncertainty,omitempty"`
}

type glitchDump struct {
	Index     int     `json:"index" yaml:"index" toml:"index"`
	Epoch     float64 `json:"epoch" yaml:"epoch" toml:"epoch"`
	Phase     float64 `json:"phase" yaml:"phase" toml:"phase"`
	F0        float64 `json:"f0" yaml:"f0" toml:"f0"`
	F1        float64 `json:"f1" yaml:"f1" toml:"f1"`
	F0Decay   float64 `json:"f0_decay" yaml:"f0_decay" toml:"f0_decay"`
	DecayTime float64 `json:"decay_time" yaml:"decay_time" toml:"decay_time"`
}

type parDump struct {
	Name          string       `json:"name" yaml:"name" toml:"name"`
	RA            *valueDump   `json:"ra,omitempty" yaml:"ra,omitempty" toml:"ra,omitempty"`
	Dec           *valueDump   `json:"dec,omitempty" yaml:"dec,omitempty" toml:"dec,omitempty"`
	TimeEphemeris string       `json:"time_ephemeris,omitempty" yaml:"time_ephemeris,omitempty" toml:"time_ephemeris,omitempty"`
	BinaryModel   string       `json:"binary_model,omitempty" yaml:"binary_model,omitempty" toml:"binary_model,omitempty"`
	T2CMethod     string       `json:"t2c_method,omitempty" yaml:"t2c_method,omitempty" toml:"t2c_method,omitempty"`
	Units         string       `json:"units,omitempty" yaml:"units,omitempty" toml:"units,omitempty"`
	ErrorMode     string       `json:"error_mode,omitempty" yaml:"error_mode,omitempty" toml:"error_mode,omitempty"`
	Floats        []valueDump  `json:"floats,omitempty" yaml:"floats,omitempty" toml:"floats,omitempty"`
	Integers      []valueDump  `json:"integers,omitempty" yaml:"integers,omitempty" toml:"integers,omitempty"`
	Texts         []valueDump  `json:"texts,omitempty" yaml:"texts,omitempty" toml:"texts,omitempty"`
	Flags         []valueDump  `json:"flags,omitempty" yaml:"flags,omitempty" toml:"flags,omitempty"`
	Glitches      []glitchDump `json:"glitches,omitempty" yaml:"glitches,omitempty" toml:"glitches,omitempty"`
	Jumps         []string     `json:"jumps,omitempty" yaml:"jumps,omitempty" toml:"jumps,omitempty"`
}

func fitted[T fmt.Stringer](name string, fv par.FieldValue[T]) *valueDump {
	if fv.IsMissing() {
		return nil
	}
	d := &valueDump{Name: name, Value: fv.Value.String()}
	if fv.State == par.FitInfo {
		fit := fv.Fit
		d.Fit = &fit
		d.Uncertainty = fv.Uncertainty
	}
	return d
}

func plain[T any](params []par.Parameter[T], format func(T) string) []valueDump {
	out := make([]valueDump, 0, len(params))
	for _, p := range params {
		out = append(out, valueDump{Name: p.Name(), Value: format(p.Value())})
	}
	return out
}

func enumText[E interface {
	~uint8
	fmt.Stringer
}](e E) string {
	if e == 0 {
		return ""
	}
	return e.String()
}

func dumpPar(pf *par.Parfile) parDump {
	d := parDump{
		Name:          pf.Name(),
		RA:            fitted(pf.RA.Name(), pf.RA.Value()),
		Dec:           fitted(pf.Dec.Name(), pf.Dec.Value()),
		TimeEphemeris: enumText(pf.TimeEphemeris),
		BinaryModel:   enumText(pf.BinaryModel),
		T2CMethod:     enumText(pf.T2CMethod),
		Units:         enumText(pf.Units),
		ErrorMode:     enumText(pf.ErrorMode),
		Integers:      plain(pf.Integers, func(v uint32) string { return fmt.Sprint(v) }),
		Texts:         plain(pf.Texts, func(v string) string { return v }),
		Flags:         plain(pf.Flags, parsetools.FormatBool),
	}
	for _, p := range pf.Floats {
		fv := p.Value()
		v := valueDump{Name: p.Name(), Value: parsetools.FormatFloat(fv.Value)}
		if fv.State == par.FitInfo {
			fit := fv.Fit
			v.Fit = &fit
			v.Uncertainty = fv.Uncertainty
		}
		d.Floats = append(d.Floats, v)
	}
	for _, g := range pf.Glitches {
		d.Glitches = append(d.Glitches, glitchDump(g))
	}
	for _, j := range pf.Jumps {
		d.Jumps = append(d.Jumps, j.String())
	}
	return d
}

type toaDump struct {
	File      string            `json:"file" yaml:"file" toml:"file"`
	Frequency float64           `json:"frequency" yaml:"frequency" toml:"frequency"`
	MJD       string            `json:"mjd" yaml:"mjd" toml:"mjd"`
	Error     float64           `json:"error" yaml:"error" toml:"error"`
	Site      string            `json:"site" yaml:"site" toml:"site"`
	Bad       bool              `json:"bad,omitempty" yaml:"bad,omitempty" toml:"bad,omitempty"`
	Comment   string            `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
	Flags     map[string]string `json:"flags,omitempty" yaml:"flags,omitempty" toml:"flags,omitempty"`
	Origin    string            `json:"origin" yaml:"origin" toml:"origin"`
}

type timDump struct {
	File string    `json:"file" yaml:"file" toml:"file"`
	TOAs []toaDump `json:"toas" yaml:"toas" toml:"toas"`
}

func dumpTOA(t tim.TOAInfo) toaDump {
	d := toaDump{
		File:      t.File,
		Frequency: t.Frequency,
		MJD:       t.MJD.String(),
		Error:     t.MJDError,
		Site:      t.SiteID,
		Bad:       t.IsBad,
		Comment:   t.Comment,
		Origin:    t.Origin.String(),
	}
	if len(t.Flags) > 0 {
		d.Flags = make(map[string]string, len(t.Flags))
		for k, v := range t.Flags {
			d.Flags[k] = v.String()
		}
	}
	return d
}

func dumpTim(name string, toas []tim.TOAInfo) timDump {
	d := timDump{File: name, TOAs: make([]toaDump, 0, len(toas))}
	for _, t := range toas {
		d.TOAs = append(d.TOAs, dumpTOA(t))
	}
	return d
}
