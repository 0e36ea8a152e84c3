package main

import (
	"github.com/currantlabs/avdtp"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/urfave/cli"
	"golang.org/x/net/context"
)

// pickEndpoint returns the requested SEID, or the first free audio
// endpoint when none was given.
func pickEndpoint(eps []avdtp.StreamInformation, want avdtp.StreamEndpointID) (avdtp.StreamInformation, error) {
	for _, ep := range eps {
		if want != 0 && ep.ID == want {
			return ep, nil
		}
		if want == 0 && !ep.InUse && ep.MediaType == avdtp.MediaAudio {
			return ep, nil
		}
	}
	if want != 0 {
		return avdtp.StreamInformation{}, errors.Errorf("no endpoint %s", want)
	}
	return avdtp.StreamInformation{}, errors.New("no free audio endpoint")
}

// configuration picks the capabilities to request: media transport plus
// the endpoint's codec as advertised.
func configuration(caps []avdtp.ServiceCapability) ([]avdtp.ServiceCapability, error) {
	conf := []avdtp.ServiceCapability{avdtp.MediaTransport{}}
	for _, c := range caps {
		if mc, ok := c.(avdtp.MediaCodec); ok {
			return append(conf, mc), nil
		}
	}
	return nil, errors.New("endpoint has no media codec")
}

func cmdCycle(c *cli.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.GlobalDuration("tmo"))
	defer cancel()
	ctx = withSigHandler(ctx, cancel)

	local, err := avdtp.NewStreamEndpointID(uint8(c.Uint("local")))
	if err != nil {
		return errors.Wrap(err, "invalid local SEID")
	}

	p, err := connect(ctx, c)
	if err != nil {
		return chkErr(err)
	}
	defer p.Close()

	eps, err := p.Discover(ctx)
	if err != nil {
		return chkErr(errors.Wrap(err, "can't discover"))
	}
	ep, err := pickEndpoint(eps, avdtp.StreamEndpointID(c.Uint("remote")))
	if err != nil {
		return err
	}
	caps, err := p.GetCapabilities(ctx, ep.ID)
	if err != nil {
		return chkErr(errors.Wrap(err, "can't get capabilities"))
	}
	conf, err := configuration(caps)
	if err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"configure", func() error { return p.SetConfiguration(ctx, ep.ID, local, conf) }},
		{"open", func() error { return p.OpenStream(ctx, ep.ID) }},
		{"start", func() error { return p.StartStreams(ctx, ep.ID) }},
		{"suspend", func() error { return p.SuspendStreams(ctx, ep.ID) }},
		{"close", func() error { return p.CloseStream(ctx, ep.ID) }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			pterm.Error.Printfln("%s %s: %s", s.name, ep.ID, err)
			if s.name != "configure" {
				p.AbortStream(ctx, ep.ID)
			}
			return chkErr(errors.Wrap(err, s.name))
		}
		pterm.Success.Printfln("%s %s", s.name, ep.ID)
	}
	return nil
}
