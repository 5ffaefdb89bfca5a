package provider

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/terraform-plugin-framework-validators/float64validator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-sketch/internal/renderer"
)

// Environment variables read when the matching provider argument is unset
const (
	EnvEngineURL   = "SKETCH_ENGINE_URL"
	EnvEngineToken = "SKETCH_ENGINE_TOKEN"
	EnvSceneToken  = "SKETCH_SCENE_TOKEN"
)

// Ensure SketchProvider satisfies various provider interfaces.
var _ provider.Provider = &SketchProvider{}

// SketchProvider defines the provider implementation.
type SketchProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
}

// SketchProviderModel describes the provider data model.
type SketchProviderModel struct {
	EngineURL      types.String  `tfsdk:"engine_url"`
	EngineToken    types.String  `tfsdk:"engine_token"`
	EngineTimeout  types.String  `tfsdk:"engine_timeout"`
	SceneToken     types.String  `tfsdk:"scene_token"`
	DefaultPadding types.Float64 `tfsdk:"default_padding"`
}

// ProviderConfig is the resolved provider configuration handed to resources
// and data sources
type ProviderConfig struct {
	Engine         renderer.Engine // nil when no engine is configured
	EngineTimeout  time.Duration
	SceneToken     string
	DefaultPadding *float64
}

func (p *SketchProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "sketch"
	resp.Version = p.version
}

func (p *SketchProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "The Sketch provider renders hand-drawn style diagram scenes to SVG, PNG, PDF or JSON.",
		Attributes: map[string]schema.Attribute{
			"engine_url": schema.StringAttribute{
				Description: "Base URL of an external screenshot engine used for PNG output when use_engine is set. Can also be set via SKETCH_ENGINE_URL environment variable.",
				Optional:    true,
			},
			"engine_token": schema.StringAttribute{
				Description: "Bearer token sent to the screenshot engine. Can also be set via SKETCH_ENGINE_TOKEN environment variable.",
				Optional:    true,
				Sensitive:   true,
			},
			"engine_timeout": schema.StringAttribute{
				Description: "Upper bound for starting the engine and taking one screenshot, as a Go duration such as \"45s\". Default is 30s.",
				Optional:    true,
			},
			"scene_token": schema.StringAttribute{
				Description: "Bearer token sent when fetching scene_url documents. Can also be set via SKETCH_SCENE_TOKEN environment variable.",
				Optional:    true,
				Sensitive:   true,
			},
			"default_padding": schema.Float64Attribute{
				Description: "Padding around every rendered scene unless overridden per render. Default is 40.",
				Optional:    true,
				Validators: []validator.Float64{
					float64validator.AtLeast(0),
				},
			},
		},
	}
}

func (p *SketchProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data SketchProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)

	if resp.Diagnostics.HasError() {
		return
	}

	cfg, err := resolveConfig(data)
	if err != nil {
		resp.Diagnostics.AddAttributeError(path.Root("engine_timeout"), "Invalid engine timeout", err.Error())
		return
	}

	tflog.Info(ctx, "Configured sketch provider", map[string]interface{}{
		"engine":         cfg.Engine != nil,
		"engine_timeout": cfg.EngineTimeout.String(),
	})

	// Make the configuration available to resources and data sources
	resp.DataSourceData = cfg
	resp.ResourceData = cfg
}

// resolveConfig applies environment fallbacks and defaults
func resolveConfig(data SketchProviderModel) (*ProviderConfig, error) {
	cfg := &ProviderConfig{
		EngineTimeout: renderer.DefaultEngineTimeout,
		SceneToken:    stringOrEnv(data.SceneToken, EnvSceneToken),
	}

	if raw := data.EngineTimeout.ValueString(); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("engine_timeout %q is not a duration: %w", raw, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("engine_timeout must be positive, got %s", d)
		}
		cfg.EngineTimeout = d
	}

	if url := stringOrEnv(data.EngineURL, EnvEngineURL); url != "" {
		cfg.Engine = &renderer.HTTPEngine{
			URL:     url,
			Token:   stringOrEnv(data.EngineToken, EnvEngineToken),
			Timeout: cfg.EngineTimeout,
		}
	}

	if !data.DefaultPadding.IsNull() && !data.DefaultPadding.IsUnknown() {
		padding := data.DefaultPadding.ValueFloat64()
		cfg.DefaultPadding = &padding
	}

	return cfg, nil
}

func stringOrEnv(v types.String, env string) string {
	if !v.IsNull() && !v.IsUnknown() && v.ValueString() != "" {
		return v.ValueString()
	}
	return os.Getenv(env)
}

func (p *SketchProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewImageResource,
	}
}

func (p *SketchProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewRenderDataSource,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &SketchProvider{
			version: version,
		}
	}
}
