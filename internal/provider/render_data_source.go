package provider

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework-validators/float64validator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"

	"github.com/ankek/terraform-provider-sketch/internal/interfaces"
	"github.com/ankek/terraform-provider-sketch/internal/renderer"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &RenderDataSource{}
var _ datasource.DataSourceWithConfigure = &RenderDataSource{}

// RenderDataSource defines the data source implementation.
type RenderDataSource struct {
	generator interfaces.ImageGenerator
}

func NewRenderDataSource() datasource.DataSource {
	return &RenderDataSource{
		generator: NewImageGenerator(nil),
	}
}

// RenderDataSourceModel describes the data source data model.
type RenderDataSourceModel struct {
	ID            types.String  `tfsdk:"id"`
	ScenePath     types.String  `tfsdk:"scene_path"`
	SceneJSON     types.String  `tfsdk:"scene_json"`
	SceneURL      types.String  `tfsdk:"scene_url"`
	OutputPath    types.String  `tfsdk:"output_path"`
	Format        types.String  `tfsdk:"format"`
	Scale         types.Float64 `tfsdk:"scale"`
	Padding       types.Float64 `tfsdk:"padding"`
	UseEngine     types.Bool    `tfsdk:"use_engine"`
	ElementCount  types.Int64   `tfsdk:"element_count"`
	Width         types.Float64 `tfsdk:"width"`
	Height        types.Float64 `tfsdk:"height"`
	ContentBase64 types.String  `tfsdk:"content_base64"`
	SHA256        types.String  `tfsdk:"sha256"`
}

func (d *RenderDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_render"
}

func (d *RenderDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Renders a diagram scene and exposes the encoded output. Optionally writes it to `output_path`.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Content-derived identifier",
			},
			"scene_path": schema.StringAttribute{
				MarkdownDescription: "Path to a `.excalidraw`, `.json` or `.hcl` scene file.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
					stringvalidator.ExactlyOneOf(path.MatchRoot("scene_json"), path.MatchRoot("scene_url")),
				},
			},
			"scene_json": schema.StringAttribute{
				MarkdownDescription: "Inline scene document with an `elements` array.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"scene_url": schema.StringAttribute{
				MarkdownDescription: "HTTP(S) URL of a scene document.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"output_path": schema.StringAttribute{
				MarkdownDescription: "Optional path where the rendered output is also written.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"format": schema.StringAttribute{
				MarkdownDescription: "Output format: 'svg', 'png', 'pdf' or 'json'. Default is 'svg'.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.OneOf(renderer.SupportedFormats()...),
				},
			},
			"scale": schema.Float64Attribute{
				MarkdownDescription: "Device pixels per scene unit, between 0.1 and 10. Default is 1.",
				Optional:            true,
				Validators: []validator.Float64{
					float64validator.Between(0.1, 10),
				},
			},
			"padding": schema.Float64Attribute{
				MarkdownDescription: "Margin around the scene in scene units. Defaults to the provider's default_padding, or 40.",
				Optional:            true,
				Validators: []validator.Float64{
					float64validator.AtLeast(0),
				},
			},
			"use_engine": schema.BoolAttribute{
				MarkdownDescription: "Rasterize PNG output with the provider's external engine instead of the built-in rasterizer. Default is false.",
				Optional:            true,
			},
			"element_count": schema.Int64Attribute{
				MarkdownDescription: "Number of drawable elements in the scene.",
				Computed:            true,
			},
			"width": schema.Float64Attribute{
				MarkdownDescription: "Output width in device units. Zero for json.",
				Computed:            true,
			},
			"height": schema.Float64Attribute{
				MarkdownDescription: "Output height in device units. Zero for json.",
				Computed:            true,
			},
			"content_base64": schema.StringAttribute{
				MarkdownDescription: "Rendered output, base64 encoded.",
				Computed:            true,
			},
			"sha256": schema.StringAttribute{
				MarkdownDescription: "Hex SHA-256 of the rendered output.",
				Computed:            true,
			},
		},
	}
}

func (d *RenderDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}

	cfg, ok := req.ProviderData.(*ProviderConfig)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *provider.ProviderConfig, got: %T", req.ProviderData),
		)
		return
	}

	d.generator = NewImageGenerator(cfg)
}

func (d *RenderDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data RenderDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	cfg := renderConfigFrom(data.ScenePath, data.SceneJSON, data.SceneURL, data.OutputPath, data.Format, data.Scale, data.Padding, data.UseEngine)

	result, err := d.generator.Generate(ctx, cfg)
	if err != nil {
		addRenderError(&resp.Diagnostics, err)
		return
	}

	sum := sha256.Sum256(result.Content)
	data.ID = types.StringValue(hex.EncodeToString(sum[:8]))
	data.SHA256 = types.StringValue(hex.EncodeToString(sum[:]))
	data.ContentBase64 = types.StringValue(base64.StdEncoding.EncodeToString(result.Content))
	data.ElementCount = types.Int64Value(result.ElementCount)
	data.Width = types.Float64Value(result.Width)
	data.Height = types.Float64Value(result.Height)

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
